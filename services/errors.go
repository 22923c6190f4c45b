package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so the boundary can pick a status code
type Kind int

// Failure kinds returned by the services
const (
	KindBadRequest Kind = iota + 1
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a failure the caller caused or can act on. Message is safe to
// return to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// BadRequest reports missing or invalid caller input
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// Forbidden reports an organization scope violation
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound reports a referenced entity that does not exist
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict reports a write that lost a race with a concurrent one
func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

// KindOf returns the kind of err when it is, or wraps, a service Error
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// messages shared by the case and audit services
const (
	msgCaseNotFound     = "Case not found"
	msgAccessDenied     = "Access denied"
	msgOfficerNotFound  = "Officer not found"
	msgNoOrganization   = "User must be associated with an organization"
	msgSHONoStation     = "SHO must be associated with a police station"
	msgInvalidState     = "Invalid case state"
	msgConcurrentChange = "Case was modified concurrently, retry the request"
)
