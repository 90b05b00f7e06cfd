package qerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf_Classified(t *testing.T) {
	err := New(KindTimeout, "deadline expired")
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.True(t, Is(err, KindTimeout))
	assert.False(t, Is(err, KindConfig))
}

func TestKindOf_Wrapped(t *testing.T) {
	// Classification survives further fmt.Errorf wrapping.
	inner := New(KindParse, "no JSON object")
	outer := fmt.Errorf("ask failed: %w", inner)
	assert.Equal(t, KindParse, KindOf(outer))
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindUnreachable, "cannot reach backend", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unreachable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsProtocol_IncludesModelNotInstalled(t *testing.T) {
	assert.True(t, IsProtocol(New(KindProtocol, "status 500")))
	assert.True(t, IsProtocol(New(KindModelNotInstalled, "run ollama pull")))
	assert.False(t, IsProtocol(New(KindTimeout, "deadline")))
}
