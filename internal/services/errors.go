package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/arzan03/ShopFront/internal/store"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
)

// Error is a failure that is safe to show to the client.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// StatusCode maps the error kind onto an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func invalid(msg string) error  { return &Error{Kind: KindValidation, Message: msg} }
func notFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

// Describe returns the status and client message for err. Errors that are not
// an *Error are reported as internal.
func Describe(err error) (status int, message string, internal bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode(), e.Message, false
	}
	return http.StatusInternalServerError, "Internal server error", true
}

// DuplicateMessage builds the client message for a unique index violation.
func DuplicateMessage(fields []string) string {
	if len(fields) == 0 {
		return "Unique field already exists"
	}
	joined := strings.Join(fields, ", ")
	if strings.Contains(joined, "email") && strings.Contains(joined, "name") {
		return "User already exists"
	}
	return strings.ToUpper(joined[:1]) + joined[1:] + " already exists"
}

// conflict converts store duplicate errors into client errors and passes
// anything else through.
func conflict(err error) error {
	var dup *store.DuplicateError
	if errors.As(err, &dup) {
		return &Error{Kind: KindConflict, Message: DuplicateMessage(dup.Fields)}
	}
	return err
}
