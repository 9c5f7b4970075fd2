package errors

import (
	"errors"
	"fmt"
)

// Error types for the migration engine's taxonomy: fatal errors abort the
// current migration, record-level errors are collected into the run stats,
// advisory conditions become warnings.
type ErrorType string

const (
	ErrorTypeFatal          ErrorType = "FATAL_ERROR"
	ErrorTypeRecord         ErrorType = "RECORD_ERROR"
	ErrorTypeAdvisory       ErrorType = "ADVISORY"
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeInfrastructure ErrorType = "INFRASTRUCTURE_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeConflict       ErrorType = "CONFLICT_ERROR"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyExists     = errors.New("resource already exists")
	ErrBadRequest        = errors.New("bad request")
	ErrInternalServer    = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrSourceUnavailable = errors.New("source store unavailable")
	ErrTargetUnavailable = errors.New("target store unavailable")
)

// Migration-specific errors
var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrFieldNotFound      = errors.New("field not found")
	ErrRelationNotFound   = errors.New("relation not found")
	ErrExtractionFailed   = errors.New("source extraction failed")
	ErrSchemaProvisioning = errors.New("schema provisioning failed")
	ErrInvalidDatabaseID  = errors.New("invalid source database ID")
	ErrInvalidCollection  = errors.New("invalid target collection")
	ErrUnknownJob         = errors.New("unknown migration job")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common error constructors

// NewFatalError creates a run-aborting error
func NewFatalError(message string) *AppError {
	return NewAppError(ErrorTypeFatal, message)
}

// NewRecordError creates a per-record error carrying the source record ID
func NewRecordError(sourceID, message string) *AppError {
	return NewAppError(ErrorTypeRecord, message).WithDetail("source_id", sourceID)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message)
}

// NewInfrastructureError creates an infrastructure error
func NewInfrastructureError(message string) *AppError {
	return NewAppError(ErrorTypeInfrastructure, message)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource)).WithCause(ErrNotFound)
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(ErrorTypeConflict, message).WithCause(ErrAlreadyExists)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message)
}

// Helper functions for common error scenarios

// WrapError wraps an error with context
func WrapError(err error, message string) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeNotFound
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCollectionNotFound) ||
		errors.Is(err, ErrFieldNotFound) || errors.Is(err, ErrRelationNotFound)
}

// IsAlreadyExists checks if an error signals a duplicate-creation conflict
func IsAlreadyExists(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeConflict
	}
	return errors.Is(err, ErrAlreadyExists)
}

// IsFatal checks if an error aborts the current migration run
func IsFatal(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeFatal
	}
	return errors.Is(err, ErrExtractionFailed) || errors.Is(err, ErrSchemaProvisioning)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeValidation
	}
	return false
}
