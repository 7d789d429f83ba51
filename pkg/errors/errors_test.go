package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndCodes(t *testing.T) {
	cause := errors.New("status=429")
	err := Wrap(CodeProviderFailure, "chat provider failed", cause)

	require.EqualError(t, err, "chat provider failed: status=429")
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, CodeProviderFailure))
	require.False(t, IsCode(err, CodeInvalidInput))
	require.Equal(t, CodeProviderFailure, CodeOf(fmt.Errorf("handler: %w", err)))
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(CodeEmptyMessage, "message cannot be empty", nil)
	require.EqualError(t, err, "message cannot be empty")
	require.Nil(t, errors.Unwrap(err))
}

func TestCodeOfPlainError(t *testing.T) {
	require.Empty(t, CodeOf(errors.New("boom")))
	require.Empty(t, CodeOf(nil))
}
