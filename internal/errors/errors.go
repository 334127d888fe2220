package errors

import "fmt"

// ErrorCode represents a pagelog error code.
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION" // 409
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// PagelogError represents a structured error with code, status, and details.
type PagelogError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PagelogError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PagelogError {
	return &PagelogError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing entry or attachment.
// kind is "entry" or "attachment"; identifier is what the caller asked for.
func NewNotFound(kind, identifier string) *PagelogError {
	return &PagelogError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewConstraintViolation creates a 409 error for storage-engine constraint
// failures (bad enum value, duplicate entry ID).
func NewConstraintViolation(err error) *PagelogError {
	msg := "constraint violation"
	if err != nil {
		msg = err.Error()
	}
	return &PagelogError{
		Code:    ErrConstraintViolation,
		Status:  409,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PagelogError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PagelogError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a PagelogError with the given code.
func Is(err error, code ErrorCode) bool {
	if pErr, ok := err.(*PagelogError); ok {
		return pErr.Code == code
	}
	return false
}
