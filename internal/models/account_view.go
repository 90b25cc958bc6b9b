package models

// SourceStatus tags where a view's data came from.
type SourceStatus string

const (
	Live SourceStatus = "live"
	Demo SourceStatus = "demo"
)

// AccountView is the display-ready snapshot of one account. It is replaced
// as a whole on every fetch, never merged.
type AccountView struct {
	AccountNumber string       `json:"accountNumber"`
	Description   string       `json:"description"`
	Balance       string       `json:"balance"`
	SourceStatus  SourceStatus `json:"sourceStatus"`
}
