// Package apperror provides structured error handling for the back-office API.
// Every business failure crossing a service boundary is an *AppError so that
// the HTTP layer can render it as {code, message, details} without guessing.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal              = "INTERNAL_ERROR"
	CodeEnrichmentUnavailable = "ENRICHMENT_UNAVAILABLE"

	// Validation errors (400)
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidDocument = "INVALID_DOCUMENT"
	CodeParentNotFound  = "PARENT_NOT_FOUND"
	CodeParentCycle     = "PARENT_CYCLE"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound        = "NOT_FOUND"
	CodeCompanyNotFound = "COMPANY_NOT_FOUND"

	// Conflict (409)
	CodeConflict               = "CONFLICT"
	CodeDuplicate              = "DUPLICATE_ENTRY"
	CodeDuplicateCode          = "DUPLICATE_CODE"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// AppError is the standard error type of the service.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, offending values)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidDocument wraps a tax id failure reported by package taxid.
// reason is "wrong_length" or "bad_checksum".
func NewInvalidDocument(field, reason string, cause error) *AppError {
	return &AppError{
		Code:       CodeInvalidDocument,
		Message:    "invalid CPF/CNPJ",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field, "reason": reason},
		Err:        cause,
	}
}

// NewParentNotFound is returned when an account links to a missing parent.
func NewParentNotFound(parentID any) *AppError {
	return &AppError{
		Code:       CodeParentNotFound,
		Message:    "parent account not found",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"parentLink": parentID},
	}
}

// NewParentCycle is returned when a new parent would make an account its own ancestor.
func NewParentCycle(accountID, parentID any) *AppError {
	return &AppError{
		Code:       CodeParentCycle,
		Message:    "account cannot be linked under itself or one of its descendants",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"id": accountID, "parentLink": parentID},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewCompanyNotFound is returned when a company does not exist or is not owned by the caller.
func NewCompanyNotFound(ref any) *AppError {
	return &AppError{
		Code:       CodeCompanyNotFound,
		Message:    "company not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"company": ref},
	}
}

// NewDuplicateCode is returned when an account code is already taken.
func NewDuplicateCode(code string) *AppError {
	return &AppError{
		Code:       CodeDuplicateCode,
		Message:    "account code already in use",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"code": code},
	}
}

// NewEnrichmentUnavailable is returned when the company registry lookup fails.
// upstreamStatus is 0 when no HTTP response was received.
func NewEnrichmentUnavailable(upstreamStatus int, cause error) *AppError {
	e := &AppError{
		Code:       CodeEnrichmentUnavailable,
		Message:    "company registry lookup failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        cause,
	}
	if upstreamStatus != 0 {
		e.WithDetail("upstream_status", upstreamStatus)
	}
	return e
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
