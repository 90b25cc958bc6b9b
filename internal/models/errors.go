package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession means no session record was handed to the fetcher.
	ErrNoSession = errors.New("no session")

	// ErrIdentifierMissing means no candidate path produced an account
	// identifier. It is terminal for the session; no call is attempted.
	ErrIdentifierMissing = errors.New("no account identifier")

	// ErrMissingFields is returned when a sign-in form lacks required input.
	ErrMissingFields = errors.New("required fields missing")

	// ErrInvalidCredentials is returned when the shared password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordMismatch is returned when registration passwords differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrNoAccountNumber means the user record carried no account number.
	ErrNoAccountNumber = errors.New("no account number for this user")
)

// TransportError wraps a failure to reach the remote service at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: transport: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError is a non-2xx answer from the remote service.
type HTTPStatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}

// ParseError is a 2xx answer whose payload could not be understood.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: parse: %v", e.Op, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is raised on the caller side before anything is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason) }

// MutationFailedError wraps whatever went wrong during a submit.
type MutationFailedError struct {
	Kind MutationKind
	Err  error
}

func (e *MutationFailedError) Error() string { return fmt.Sprintf("%s failed: %v", e.Kind, e.Err) }
func (e *MutationFailedError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// LookupCategory classifies a failed user lookup at sign-in.
type LookupCategory string

const (
	UserNotFound       LookupCategory = "user_not_found"
	ServiceUnavailable LookupCategory = "service_unavailable"
	APIFailure         LookupCategory = "api_error"
)

// Retriable reports whether trying again later can help.
func (c LookupCategory) Retriable() bool { return c == ServiceUnavailable }

// LookupError is a categorized user-lookup failure.
type LookupError struct {
	Category LookupCategory
	Status   int
	Body     string
	Err      error
}

func (e *LookupError) Error() string {
	switch e.Category {
	case UserNotFound:
		return "user not found"
	case ServiceUnavailable:
		if e.Status == 0 {
			return fmt.Sprintf("service unavailable: %v", e.Err)
		}
		return fmt.Sprintf("service unavailable (status %d)", e.Status)
	default:
		return fmt.Sprintf("api error: status %d: %s", e.Status, e.Body)
	}
}

func (e *LookupError) Unwrap() error { return e.Err }

// RegistrationStep names one call of the two-step registration.
type RegistrationStep string

const (
	StepCreateUser    RegistrationStep = "create-user"
	StepCreateAccount RegistrationStep = "create-account"
)

// RegistrationError reports which step failed. A user created by an earlier
// step is left in place.
type RegistrationError struct {
	Step RegistrationStep
	Err  error
}

func (e *RegistrationError) Error() string { return fmt.Sprintf("registration %s: %v", e.Step, e.Err) }
func (e *RegistrationError) Unwrap() error { return e.Err }
