// Package apperror defines the error taxonomy of the reservation engine.
// Handlers map kinds to HTTP statuses: NotFound -> 404, InvalidState and
// Validation -> 400, Conflict -> 409. Conflict and Validation errors carry
// the labels of the seats at fault.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindConflict
	KindValidation
)

type Error struct {
	Kind    Kind
	Message string
	Seats   []string
	Cause   error
}

func (e *Error) Error() string {
	if len(e.Seats) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Seats, ", "))
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func Conflict(message string, seats ...string) *Error {
	return &Error{Kind: KindConflict, Message: message, Seats: seats}
}

// ConflictFrom wraps a low-level storage error as a seat conflict. Used for
// the uniqueness-constraint path in lock creation, where the violation is
// the expected loser-of-the-race outcome, not an infrastructure failure.
func ConflictFrom(cause error, message string, seats ...string) *Error {
	return &Error{Kind: KindConflict, Message: message, Seats: seats, Cause: cause}
}

func Validation(message string, seats ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Seats: seats}
}

// KindOf extracts the kind from an error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// SeatsOf extracts the offending seat labels from an error chain.
func SeatsOf(err error) []string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Seats
	}
	return nil
}
