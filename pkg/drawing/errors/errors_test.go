package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrSessionUnavailable, "SessionUnavailable"},
		{ErrEnumerationFailed, "EnumerationFailed"},
		{ErrNotFound, "NotFound"},
		{ErrCommandFailed, "CommandFailed"},
		{ErrInvalidDrawing, "InvalidDrawing"},
		{ErrorCode(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.String())
		})
	}
}

func TestError_Message(t *testing.T) {
	t.Run("NameAndCause", func(t *testing.T) {
		err := NewEnumerationError("model space", errors.New("rpc failed"))
		assert.Equal(t, "enumeration failed: model space: rpc failed", err.Error())
	})

	t.Run("NameOnly", func(t *testing.T) {
		err := NewNotFoundError("DOOR")
		assert.Equal(t, "block definition not found: DOOR", err.Error())
	})

	t.Run("FallsBackToCode", func(t *testing.T) {
		err := &Error{Code: ErrCommandFailed}
		assert.Equal(t, "CommandFailed", err.Error())
	})
}

func TestHelpers_SeeThroughWrapping(t *testing.T) {
	cause := errors.New("RPC server unavailable")
	wrapped := fmt.Errorf("open drawing: %w", NewSessionUnavailableError(cause))

	assert.True(t, IsSessionUnavailable(wrapped))
	assert.False(t, IsEnumerationError(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, ErrSessionUnavailable, CodeOf(wrapped))

	assert.True(t, IsNotFound(NewNotFoundError("X")))
	assert.True(t, IsCommandError(NewCommandError("X", nil)))
	assert.Equal(t, ErrorCode(0), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(0), CodeOf(nil))
}
