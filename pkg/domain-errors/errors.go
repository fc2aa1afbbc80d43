// Package domainerrors defines the coded error vocabulary shared by every
// registry operation. Services return these; the HTTP layer translates codes
// to status lines without inspecting messages.
//
// Stores do not use this package directly: infrastructure facts are reported
// through pkg/platform/sentinel and translated by the service layer.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a terminal outcome kind. Codes are stable wire values.
type Code string

const (
	// Registry outcome kinds.
	CodeMissingRecord          Code = "missing_record"
	CodeDuplicateRegistration  Code = "duplicate_registration" // reserved: cannot occur while ids are sequence-allocated
	CodeInvalidMetadataFormat  Code = "invalid_metadata_format"
	CodeSizeConstraintViolated Code = "size_constraint_violated"
	CodeMetadataValidation     Code = "metadata_validation_error"
	CodeOwnershipMismatch      Code = "ownership_mismatch"
	CodeUnauthorized           Code = "unauthorized_operation"
	CodeAdminRequired          Code = "admin_privileges_required"
	CodeAccessDenied           Code = "access_denied" // reserved for access-matrix-specific denial

	// Transport-level kinds.
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal_error"
)

// Error carries a code, a human-readable message, and an optional cause.
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

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (anywhere in its chain) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is a readability alias for HasCode, for call sites that read like
// dErrors.Is(err, dErrors.CodeMissingRecord).
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the outermost code, or CodeInternal when err is uncoded.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto the HTTP status the transport layer emits.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeMissingRecord:
		return http.StatusNotFound
	case CodeDuplicateRegistration:
		return http.StatusConflict
	case CodeInvalidMetadataFormat, CodeSizeConstraintViolated, CodeMetadataValidation:
		return http.StatusUnprocessableEntity
	case CodeOwnershipMismatch, CodeUnauthorized, CodeAdminRequired, CodeAccessDenied:
		return http.StatusForbidden
	case CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
