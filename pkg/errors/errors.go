package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeLocked       ErrorType = "locked"
	ErrorTypeStorage      ErrorType = "storage"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeDatabase     ErrorType = "database"
)

// APIError represents a structured API error
type APIError struct {
	Type        ErrorType `json:"type"`
	Code        string    `json:"code"`
	Message     string    `json:"message"`
	Details     string    `json:"details,omitempty"`
	HTTPStatus  int       `json:"-"`
	InternalErr error     `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Message, e.Details, e.Code)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Unwrap returns the underlying error
func (e *APIError) Unwrap() error {
	return e.InternalErr
}

// NewAPIError creates a new API error
func NewAPIError(errorType ErrorType, code, message string, httpStatus int) *APIError {
	return &APIError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// NewAPIErrorWithCause creates a new API error with an underlying cause
func NewAPIErrorWithCause(errorType ErrorType, code, message string, httpStatus int, cause error) *APIError {
	return &APIError{
		Type:        errorType,
		Code:        code,
		Message:     message,
		HTTPStatus:  httpStatus,
		InternalErr: cause,
	}
}

// Predefined error constructors

// ValidationError creates a validation error
func ValidationError(code, message string) *APIError {
	return NewAPIError(ErrorTypeValidation, code, message, http.StatusBadRequest)
}

// InvalidLevelError signals an unknown programme level
func InvalidLevelError(level string) *APIError {
	return ValidationError("INVALID_LEVEL", fmt.Sprintf("unknown programme level %q", level))
}

// InvalidProgrammeError signals a programme name outside the catalog for its level
func InvalidProgrammeError(level, programme string) *APIError {
	return ValidationError("INVALID_PROGRAMME", fmt.Sprintf("programme %q is not offered at %s level", programme, level))
}

// NotFoundError creates a not found error
func NotFoundError(resource string) *APIError {
	return NewAPIError(ErrorTypeNotFound, "RESOURCE_NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// DuplicateApplicationError signals a second application for the same
// (applicant, level, programme) triple
func DuplicateApplicationError(level, programme string) *APIError {
	return NewAPIError(ErrorTypeConflict, "DUPLICATE_APPLICATION",
		fmt.Sprintf("an application for %s (%s) already exists", programme, level),
		http.StatusConflict)
}

// ApplicationLockedError signals a document mutation on a submitted application
func ApplicationLockedError(status string) *APIError {
	return NewAPIError(ErrorTypeLocked, "APPLICATION_LOCKED",
		fmt.Sprintf("application is %s; documents are locked", status),
		http.StatusConflict)
}

// IncompleteApplicationError signals a submit attempt with required documents
// still missing. MissingTypes keeps the required-set order.
type IncompleteApplicationError struct {
	APIError
	MissingTypes []string `json:"missingTypes"`
}

// NewIncompleteApplicationError creates an IncompleteApplicationError
func NewIncompleteApplicationError(missingTypes []string) *IncompleteApplicationError {
	return &IncompleteApplicationError{
		APIError: APIError{
			Type:       ErrorTypeValidation,
			Code:       "INCOMPLETE_APPLICATION",
			Message:    fmt.Sprintf("not ready to submit, missing: %s", strings.Join(missingTypes, ", ")),
			HTTPStatus: http.StatusBadRequest,
		},
		MissingTypes: missingTypes,
	}
}

// NotAuthenticatedError creates an unauthenticated error
func NotAuthenticatedError() *APIError {
	return NewAPIError(ErrorTypeUnauthorized, "NOT_AUTHENTICATED", "authentication required", http.StatusUnauthorized)
}

// NotAuthorizedError creates a forbidden error
func NotAuthorizedError() *APIError {
	return NewAPIError(ErrorTypeForbidden, "NOT_AUTHORIZED", "reviewer role required", http.StatusForbidden)
}

// InvalidCredentialsError creates a login failure error
func InvalidCredentialsError() *APIError {
	return NewAPIError(ErrorTypeUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized)
}

// MissingRejectionReasonError signals a Rejected decision without a note
func MissingRejectionReasonError() *APIError {
	return ValidationError("MISSING_REJECTION_REASON", "a reason is required when rejecting")
}

// StorageError wraps a file storage failure
func StorageError(operation string, cause error) *APIError {
	return NewAPIErrorWithCause(ErrorTypeStorage, "STORAGE_FAILURE",
		fmt.Sprintf("storage operation failed: %s", operation),
		http.StatusInternalServerError, cause)
}

// DatabaseError creates a database error
func DatabaseError(operation string, cause error) *APIError {
	return NewAPIErrorWithCause(ErrorTypeDatabase, "DATABASE_ERROR",
		fmt.Sprintf("database operation failed: %s", operation),
		http.StatusInternalServerError, cause)
}

// Error handling utilities

// GetAPIError extracts an APIError from an error chain
func GetAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var incomplete *IncompleteApplicationError
	if errors.As(err, &incomplete) {
		return &incomplete.APIError
	}
	return nil
}

// HasCode reports whether err carries the given error code
func HasCode(err error, code string) bool {
	if apiErr := GetAPIError(err); apiErr != nil {
		return apiErr.Code == code
	}
	return false
}

// HTTPStatusFor maps an error to the HTTP status it should produce
func HTTPStatusFor(err error) int {
	if apiErr := GetAPIError(err); apiErr != nil {
		return apiErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
