package adapter

import (
	"errors"
	"fmt"
)

// The adapter error taxonomy. Callers branch on these types: auth errors
// gate all remote calls, validation errors drive specific UI messages
// (guest cap reached vs. unsupported edit), and network/parse errors are
// transient.

// AuthError means no valid token is available. It is distinguished from a
// backend-rejected request so the UI can prompt for login instead of
// showing a generic failure.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "not authenticated"
	}
	return e.Reason
}

// NetworkError is a failed request or a non-2xx response. Message carries
// the backend's human-readable error verbatim when one was provided.
type NetworkError struct {
	Status  int // 0 when the request never reached the backend
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("request failed: %d", e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError is a malformed response body.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid response from backend: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationReason identifies why an operation was rejected locally.
type ValidationReason int

const (
	// ReasonTaskLimit means the guest-mode task cap was reached.
	ReasonTaskLimit ValidationReason = iota
	// ReasonUnsupported means the backend variant cannot perform the
	// operation at all (e.g. editing a guest task).
	ReasonUnsupported
	// ReasonInvalidInput means the input itself was rejected.
	ReasonInvalidInput
)

// ValidationError is a locally rejected operation, never a transient
// failure. The Reason lets the UI pick a precise message.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsTaskLimit reports whether err is the guest task cap rejection.
func IsTaskLimit(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Reason == ReasonTaskLimit
}

// IsUnsupported reports whether err is a categorically unsupported
// operation.
func IsUnsupported(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Reason == ReasonUnsupported
}
