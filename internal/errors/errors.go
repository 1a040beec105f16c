package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies a failure for transport mapping.
type Kind int

const (
	// KindStorage is the fallback: the persistence layer misbehaved.
	KindStorage Kind = iota
	// KindNotFound covers both "does not exist" and "not owned by the
	// requesting user" — deliberately indistinguishable to the caller.
	KindNotFound
	// KindForbidden rejects writes referencing pieces the user does not own.
	KindForbidden
	// KindInvalid rejects missing/empty fields, out-of-vocabulary values,
	// and malformed structured input.
	KindInvalid
)

// Error carries a kind plus a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound creates a not-found (or not-owned) error.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Forbidden creates an ownership-rejection error.
func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Invalid creates a validation error.
func Invalid(msg string) error {
	return &Error{Kind: KindInvalid, Message: msg}
}

// Map converts repo/infra errors into the service taxonomy.
// Keeps the service layer clean by centralizing the mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Message: "record not found", Err: err}

	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindStorage, Message: "request timed out", Err: err}

	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindStorage, Message: "request was canceled", Err: err}

	default:
		return &Error{Kind: KindStorage, Message: "storage failure", Err: err}
	}
}

// KindOf extracts the kind from any error, defaulting to KindStorage.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}
	return KindStorage
}

// HTTPStatus maps an error to the status code the API surfaces.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show the caller. Storage
// details stay in the logs.
func PublicMessage(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Kind != KindStorage {
		return svcErr.Message
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "record not found"
	}
	return "internal server error"
}
