package recall

import (
	"errors"
	"fmt"
)

// Kind is a stable, machine-readable error tag. Callers branch on Kind, never on
// the message text.
type Kind string

const (
	// KindUnauthorized means no caller identity could be resolved.
	KindUnauthorized Kind = "UNAUTHORIZED"

	// KindNotFound covers absent, inaccessible and inactive records alike.
	KindNotFound Kind = "NOT_FOUND"

	// KindInputInvalid is raised by input validation before an operation runs.
	KindInputInvalid Kind = "INPUT_INVALID"

	// KindInternal is any storage or unexpected failure.
	KindInternal Kind = "INTERNAL"
)

// Error is the error type returned by every operation.
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

// Is reports whether target is an *Error of the same Kind, so the sentinels
// below can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInputInvalid = &Error{Kind: KindInputInvalid, Message: "invalid input"}
)

// NotFound returns a NotFound error with the given message.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Invalid returns an InputInvalid error for field.
func Invalid(field, msg string) error {
	return &Error{Kind: KindInputInvalid, Message: fmt.Sprintf("%s %s", field, msg)}
}

func internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the Kind carried by err. Errors that are not an *Error are
// reported as KindInternal, and nil yields the empty Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}
