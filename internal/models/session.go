package models

// SessionRecord is the loosely shaped record handed over by sign-in. The
// core reads it and never writes to it.
type SessionRecord map[string]any

// Session is the canonical result of a successful sign-in. AccountNumber
// does not change for the lifetime of the session.
type Session struct {
	Username      string `json:"username"`
	FullName      string `json:"fullName"`
	AccountNumber string `json:"accountNumber"`
}

// Record exposes the session in the flat shape the account fetcher reads.
func (s Session) Record() SessionRecord {
	return SessionRecord{
		"username":      s.Username,
		"fullName":      s.FullName,
		"accountNumber": s.AccountNumber,
	}
}
