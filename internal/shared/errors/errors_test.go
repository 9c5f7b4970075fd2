package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Behavior(t *testing.T) {
	err := NewValidationError("invalid input").WithCode("VAL001").WithDetail("field", "name").WithComponent("test-component")
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "VAL001", err.Code)
	assert.Equal(t, "test-component", err.Component)
	assert.Equal(t, "name", err.Details["field"])
	assert.Equal(t, "invalid input", err.Error())
}

func TestAppError_WithCause_Unwrap(t *testing.T) {
	cause := ErrNotFound
	err := NewNotFoundError("collection").WithCause(cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestRecordError_CarriesSourceID(t *testing.T) {
	err := NewRecordError("rec-42", "transform failed")
	assert.Equal(t, ErrorTypeRecord, err.Type)
	assert.Equal(t, "rec-42", err.Details["source_id"])
}

func TestIsNotFound_IsAlreadyExists(t *testing.T) {
	nf := NewNotFoundError("collection")
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsAlreadyExists(nf))

	conflict := NewConflictError("collection already exists")
	assert.True(t, IsAlreadyExists(conflict))
	assert.False(t, IsNotFound(conflict))

	wrapped := fmt.Errorf("create collection: %w", ErrAlreadyExists)
	assert.True(t, IsAlreadyExists(wrapped))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(NewFatalError("source down")))
	assert.True(t, IsFatal(fmt.Errorf("query page 3: %w", ErrExtractionFailed)))
	assert.False(t, IsFatal(NewRecordError("rec-1", "bad value")))
}
