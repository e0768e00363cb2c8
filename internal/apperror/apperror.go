package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeLocked     = "LOCKED"
	CodeConflict   = "CONFLICT"
	CodeAuth       = "AUTH_ERROR"
	CodeStorage    = "STORAGE_ERROR"
)

// AppError carries an error code, a user-facing message, and the HTTP status
// the handler layer should respond with.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error // wrapped cause, optional
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Validation reports malformed or out-of-range input (400)
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// NotFound reports an unknown id or unmatched date (404)
func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

// Locked reports a write against a locked completion (400, locked flag set by the handler)
func Locked(message string) *AppError {
	return New(CodeLocked, message, http.StatusBadRequest)
}

// Conflict reports a violated uniqueness or state-transition constraint (409)
func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

// Unauthorized reports a missing or invalid credential (401)
func Unauthorized(message string) *AppError {
	return New(CodeAuth, message, http.StatusUnauthorized)
}

// Forbidden reports a valid credential without sufficient rights (403)
func Forbidden(message string) *AppError {
	return New(CodeAuth, message, http.StatusForbidden)
}

// Storage wraps a backing-store failure (500); not retried, surfaced as-is
func Storage(message string, err error) *AppError {
	return &AppError{Code: CodeStorage, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// From extracts an *AppError from err, wrapping unknown errors as Storage
func From(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Storage("unexpected error", err)
}

// IsLocked reports whether err is a locked-completion conflict
func IsLocked(err error) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Code == CodeLocked
}
