// Package domainerrors provides coded errors for the service boundary.
//
// Services return these so transports can translate failures into protocol
// responses without inspecting error strings. Stores return sentinel errors
// (pkg/platform/sentinel) and services wrap them with the appropriate code.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeUnauthorized means the caller lacks the required relation or role.
	CodeUnauthorized Code = "unauthorized"
	// CodeConsentRequired means a write was attempted without active consent
	// for the record's category.
	CodeConsentRequired Code = "consent_required"
	// CodeIndexOutOfBounds means the referenced sequence index does not exist.
	CodeIndexOutOfBounds Code = "index_out_of_bounds"

	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation"
	CodeInvalidInput Code = "invalid_input"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// Error is a coded domain error. It may wrap an underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
		de = nil
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeConsentRequired:
		return http.StatusPreconditionFailed
	case CodeIndexOutOfBounds, CodeNotFound:
		return http.StatusNotFound
	case CodeBadRequest, CodeValidation, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
