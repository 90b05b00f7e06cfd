// Package config loads and validates the service configuration.
//
// DESIGN: Configuration comes from a YAML file with ${VAR:-default} env
// expansion, so credentials stay out of the file itself. Validate() applies
// defaults for the few settings with safe ones (gateway timeout, history
// store type) and rejects everything else that is missing or out of range.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tracepilot/tracepilot/internal/adapters"
	"github.com/tracepilot/tracepilot/internal/gateway"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`    // HTTP server settings
	Gateway   GatewayConfig   `yaml:"gateway"`   // Model gateway settings
	Providers ProvidersConfig `yaml:"providers"` // Backend connection settings
	History   HistoryConfig   `yaml:"history"`   // Question history store
	Logging   LoggingConfig   `yaml:"logging"`   // zerolog settings
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// GatewayConfig contains model gateway settings.
type GatewayConfig struct {
	Model   string        `yaml:"model"`   // default model identity
	Timeout time.Duration `yaml:"timeout"` // per-call deadline
}

// ProvidersConfig contains per-backend connection settings.
type ProvidersConfig struct {
	OpenAI OpenAIConfig `yaml:"openai"`
	Ollama OllamaConfig `yaml:"ollama"`
}

// OpenAIConfig configures the hosted backend.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // empty means the hosted default
}

// OllamaConfig configures the local backend.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"` // empty means the loopback default
}

// HistoryConfig selects the question history store.
type HistoryConfig struct {
	Type string `yaml:"type"` // "memory" or "sqlite"
	Path string `yaml:"path"` // database file, sqlite only
}

// LoggingConfig contains zerolog settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // trace..panic, default info
	Format string `yaml:"format"` // "json" or "console"
	Output string `yaml:"output"` // "stdout", "stderr" or a file path
}

// envVarRe matches ${VAR} and ${VAR:-default}.
var envVarRe = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvWithDefaults expands environment variables, supporting both
// ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envVarRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) > 2 {
			return parts[2]
		}
		return ""
	})
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes, expanding env
// vars and validating the result.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate applies defaults and checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}

	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = gateway.DefaultTimeout
	}
	if c.Gateway.Model == "" {
		c.Gateway.Model = string(adapters.ModelGPT35)
	}
	if !adapters.Model(c.Gateway.Model).Known() {
		return fmt.Errorf("unknown gateway.model: %q", c.Gateway.Model)
	}

	switch c.History.Type {
	case "":
		c.History.Type = "memory"
	case "memory":
	case "sqlite":
		if c.History.Path == "" {
			return fmt.Errorf("history.path is required when history.type is sqlite")
		}
	default:
		return fmt.Errorf("unknown history.type: %q", c.History.Type)
	}

	return nil
}
