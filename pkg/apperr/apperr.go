// Package apperr defines the error taxonomy shared by all event handlers.
// Every error carries a stable machine-readable code and the HTTP status the
// dispatcher should mirror into the response.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error class in API responses.
type Code string

const (
	CodeValidation           Code = "ValidationError"
	CodeUnknownStep          Code = "UnknownStep"
	CodeUnauthorized         Code = "Unauthorized"
	CodeForbidden            Code = "Forbidden"
	CodeNotFound             Code = "NotFound"
	CodeConflict             Code = "Conflict"
	CodeUpstream             Code = "UpstreamError"
	CodeStorageMisconfigured Code = "StorageMisconfigured"
	CodeAIService            Code = "AIServiceError"
)

// Error is a typed application error.
type Error struct {
	Code    Code
	Status  int
	Message string
	Err     error // wrapped upstream cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Detail returns the user-facing message, with the upstream cause appended
// when one exists.
func (e *Error) Detail() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Validation returns a 400 validation error.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message}
}

// UnknownStep returns a 400 error for an unrecognized dispatch step.
func UnknownStep(step string) *Error {
	return &Error{Code: CodeUnknownStep, Status: http.StatusBadRequest, Message: "unknown step: " + step}
}

// Unauthorized returns a 401 error.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

// Forbidden returns a 403 error.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Status: http.StatusForbidden, Message: message}
}

// NotFound returns a 404 error.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

// Conflict returns a 409 error.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Status: http.StatusConflict, Message: message}
}

// Upstream returns a 500 error wrapping a gateway failure.
func Upstream(message string, err error) *Error {
	return &Error{Code: CodeUpstream, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// StorageMisconfigured returns a 500 error for a missing or broken blob store.
func StorageMisconfigured(message string) *Error {
	return &Error{Code: CodeStorageMisconfigured, Status: http.StatusInternalServerError, Message: message}
}

// AIService returns a 500 error for text-enhancement gateway failures.
func AIService(message string, err error) *Error {
	return &Error{Code: CodeAIService, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// From converts any error into an *Error, wrapping unknown errors as
// UpstreamError so no raw error shape ever reaches a client.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Upstream("internal error", err)
}
