package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeConflict     ErrorCode = "CONFLICT"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Account lifecycle errors
	CodeInvalidState       ErrorCode = "INVALID_STATE"
	CodeInvalidOperation   ErrorCode = "INVALID_OPERATION"
	CodeAccountLocked      ErrorCode = "ACCOUNT_PENDING_DELETION"
	CodeExternalDependency ErrorCode = "EXTERNAL_DEPENDENCY_FAILURE"

	// Quiz specific errors
	CodeQuizNotFound ErrorCode = "QUIZ_NOT_FOUND"
	CodeUserNotFound ErrorCode = "USER_NOT_FOUND"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Context map[string]any `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError carrying the same code, so callers
// can match with errors.Is against the sentinel values below.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a key/value that the HTTP layer exposes as response details.
func (e *DomainError) WithContext(key string, value any) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Code-only sentinels for errors.Is matching.
var (
	ErrNotFound           = &DomainError{Code: CodeNotFound}
	ErrUserNotFound       = &DomainError{Code: CodeUserNotFound}
	ErrQuizNotFound       = &DomainError{Code: CodeQuizNotFound}
	ErrInvalidInput       = &DomainError{Code: CodeInvalidInput}
	ErrInvalidState       = &DomainError{Code: CodeInvalidState}
	ErrInvalidOperation   = &DomainError{Code: CodeInvalidOperation}
	ErrForbidden          = &DomainError{Code: CodeForbidden}
	ErrUnauthorized       = &DomainError{Code: CodeUnauthorized}
	ErrConflict           = &DomainError{Code: CodeConflict}
	ErrAccountLocked      = &DomainError{Code: CodeAccountLocked}
	ErrExternalDependency = &DomainError{Code: CodeExternalDependency}
)

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewUserNotFoundError() *DomainError {
	return NewError(CodeUserNotFound, "User not found", nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, "Quiz not found", nil).WithContext("quiz_id", quizID)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInvalidStateError(message string) *DomainError {
	return NewError(CodeInvalidState, message, nil)
}

func NewInvalidOperationError(message string) *DomainError {
	return NewError(CodeInvalidOperation, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewUnauthorizedError(message string, err error) *DomainError {
	return NewError(CodeUnauthorized, message, err)
}

func NewConflictError(message string) *DomainError {
	return NewError(CodeConflict, message, nil)
}

// NewAccountLockedError is returned for mutating requests made by a user whose
// account is pending deletion. The username lets clients redirect to the
// read-only profile view.
func NewAccountLockedError(username string) *DomainError {
	return NewError(CodeAccountLocked, "Account pending deletion", nil).WithContext("username", username)
}

func NewExternalDependencyError(message string, err error) *DomainError {
	return NewError(CodeExternalDependency, message, err)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is returned as a whole to the HTTP error handler.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	switch len(v) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + v[0].Error()
	}
	return fmt.Sprintf("validation failed: %s (and %d more)", v[0].Error(), len(v)-1)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: field + " is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: fmt.Sprintf("invalid value %q", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{Field: field, Code: CodeOutOfRange, Message: fmt.Sprintf("%d is outside [%d, %d]", value, min, max)}
}

func NewFieldError(field, message string) ValidationError {
	return ValidationError{Field: field, Code: CodeValidation, Message: message}
}
