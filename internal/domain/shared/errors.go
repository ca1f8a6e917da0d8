package shared

import "fmt"

// Error codes shared by every bounded context
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeInvalidSelfReference = "INVALID_SELF_REFERENCE"
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeStorageConflict      = "STORAGE_CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) matches errors carrying a more specific message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_ERROR with the given message
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError creates a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

// NewAlreadyExistsError creates an ALREADY_EXISTS error with the given message
func NewAlreadyExistsError(message string) *DomainError {
	return NewDomainError(CodeAlreadyExists, message)
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists        = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput         = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInvalidSelfReference = NewDomainError(CodeInvalidSelfReference, "Cannot reference yourself")
	ErrUnauthorized         = NewDomainError(CodeUnauthorized, "Authentication required")
	ErrForbidden            = NewDomainError(CodeForbidden, "Not authorized to perform this action")
	ErrStorageConflict      = NewDomainError(CodeStorageConflict, "Resource was modified concurrently, retry the request")
)
