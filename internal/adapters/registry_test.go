package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_BuiltIns(t *testing.T) {
	r := NewRegistry()

	gpt4 := r.For(ModelGPT4)
	require.NotNil(t, gpt4)
	assert.Equal(t, "openai", gpt4.Name())

	// Both hosted variants share the same protocol family and adapter.
	assert.Same(t, gpt4, r.For(ModelGPT35))

	llama := r.For(ModelLlama2)
	require.NotNil(t, llama)
	assert.Equal(t, "ollama", llama.Name())
}

func TestRegistry_UnknownModel(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.For(Model("claude-3")))
}

func TestModel_Hosted(t *testing.T) {
	assert.True(t, ModelGPT4.Hosted())
	assert.True(t, ModelGPT35.Hosted())
	assert.False(t, ModelLlama2.Hosted())
}

func TestModel_Known(t *testing.T) {
	assert.True(t, ModelGPT4.Known())
	assert.True(t, ModelLlama2.Known())
	assert.False(t, Model("").Known())
	assert.False(t, Model("gpt-5").Known())
}
