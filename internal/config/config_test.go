package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracepilot/tracepilot/internal/gateway"
)

const validYAML = `
server:
  port: 8080
gateway:
  model: llama2
providers:
  ollama:
    base_url: http://localhost:11434
history:
  type: memory
logging:
  level: debug
`

func TestLoadFromBytes_Valid(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(validYAML))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "llama2", cfg.Gateway.Model)
	assert.Equal(t, "http://localhost:11434", cfg.Providers.Ollama.BaseURL)
}

func TestLoadFromBytes_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("server:\n  port: 9090\n"))

	require.NoError(t, err)
	assert.Equal(t, gateway.DefaultTimeout, cfg.Gateway.Timeout)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Gateway.Model)
	assert.Equal(t, "memory", cfg.History.Type)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadFromBytes_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")

	cfg, err := LoadFromBytes([]byte(`
server:
  port: 8080
providers:
  openai:
    api_key: ${TEST_OPENAI_KEY}
    base_url: ${TEST_MISSING_URL:-https://fallback.example.com}
`))

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, "https://fallback.example.com", cfg.Providers.OpenAI.BaseURL)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing port":   "gateway:\n  model: gpt-4\n",
		"bad port":       "server:\n  port: 99999\n",
		"unknown model":  "server:\n  port: 8080\ngateway:\n  model: gpt-9\n",
		"bad history":    "server:\n  port: 8080\nhistory:\n  type: redis\n",
		"sqlite no path": "server:\n  port: 8080\nhistory:\n  type: sqlite\n",
	}

	for name, yaml := range cases {
		_, err := LoadFromBytes([]byte(yaml))
		assert.Error(t, err, name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}
