package shared

import (
	"errors"
	"fmt"
)

// Error codes carried by DomainError
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeDuplicateKey = "DUPLICATE_KEY"
	CodeNotFound     = "NOT_FOUND"
	CodeTypeMismatch = "TYPE_MISMATCH"
	CodeInvalidState = "INVALID_STATE"
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
// errors.Is(err, ErrNotFound) holds for any not-found error regardless of message.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_ERROR with a formatted message
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError creates a NOT_FOUND error with a formatted message
func NewNotFoundError(format string, args ...any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf(format, args...))
}

// NewDuplicateKeyError creates a DUPLICATE_KEY error with a formatted message
func NewDuplicateKeyError(format string, args ...any) *DomainError {
	return NewDomainError(CodeDuplicateKey, fmt.Sprintf(format, args...))
}

// NewTypeMismatchError creates a TYPE_MISMATCH error with a formatted message
func NewTypeMismatchError(format string, args ...any) *DomainError {
	return NewDomainError(CodeTypeMismatch, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrValidation   = NewDomainError(CodeValidation, "Validation failed")
	ErrDuplicateKey = NewDomainError(CodeDuplicateKey, "Duplicate key")
	ErrNotFound     = NewDomainError(CodeNotFound, "Resource not found")
	ErrTypeMismatch = NewDomainError(CodeTypeMismatch, "Payload kind does not match drop target")
	ErrInvalidState = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// PersistenceError wraps a failure reported by a persistence store.
// The cause is kept unmodified and reachable through Unwrap.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("persistence: %s failed", e.Op)
	}
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is matches any PersistenceError, so errors.Is(err, ErrPersistence) works for every store failure
func (e *PersistenceError) Is(target error) bool {
	_, ok := target.(*PersistenceError)
	return ok
}

// ErrPersistence is the sentinel for store failures
var ErrPersistence = &PersistenceError{Op: "store"}

// NewPersistenceError wraps err as a PersistenceError. A nil err yields nil,
// and an err that already is a PersistenceError is returned as is.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
