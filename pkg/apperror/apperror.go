package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error so handlers can map it to an HTTP status
// without knowing which feature produced it
type Kind int

const (
	// Validation means the input was malformed or inconsistent; the caller
	// can recover by correcting it
	Validation Kind = iota + 1
	// NotFound means a referenced entity does not exist
	NotFound
	// AlreadySettled means a paid obligation or debt was re-marked as paid
	AlreadySettled
	// IllegalTransition means a state change the lifecycle does not permit
	IllegalTransition
	// Permission means the actor is not allowed to perform the operation
	Permission
)

// Error is the application error carried across service boundaries
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or 0 if err carries no kind
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an application error of the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
