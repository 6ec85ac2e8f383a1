package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("insert: %w", NewPersistenceError("Failed to save contract", cause))

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Failed to save contract", Message(err))
	assert.Contains(t, err.Error(), "PERSISTENCE_ERROR")
}

func TestNewExtractionFailedError_KeepsCauseMessage(t *testing.T) {
	err := NewExtractionFailedError(NewProviderError("OpenAI API error: 429 rate limited", nil))

	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.ErrorIs(t, err, ErrProvider)
	assert.Equal(t, "contract extraction failed: OpenAI API error: 429 rate limited", err.Message)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "x"))
	base := NewNotFoundError("Contract not found")
	assert.ErrorIs(t, WrapError(base, "get"), ErrNotFound)
}
