package apperr

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an error so handlers and callers can branch on the
// category without string matching.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindAuthorization
	KindDuplicate
	KindInvalidState
	KindExternalDependency
)

// Error is the error type returned by every service in this project.
type Error struct {
	Kind    Kind
	Message string
	// Fields lists the offending input fields for validation errors, so a
	// single response can report every violation at once.
	Fields []string
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return e.Message + ": " + strings.Join(e.Fields, ", ")
	}
	return e.Message
}

// Is reports kind equality, so errors.Is(err, apperr.NotFound("x")) style
// comparisons against package sentinels work as expected.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

func Validation(msg string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func Duplicate(msg string) *Error {
	return &Error{Kind: KindDuplicate, Message: msg}
}

func InvalidState(msg string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

func ExternalDependency(msg string) *Error {
	return &Error{Kind: KindExternalDependency, Message: msg}
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Status maps an error to the HTTP status the API responds with.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindAuthorization:
		return fiber.StatusForbidden
	case KindDuplicate, KindInvalidState:
		return fiber.StatusConflict
	case KindExternalDependency:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
