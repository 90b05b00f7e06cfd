// Package gateway unifies the backend adapters behind one query contract.
//
// DESIGN: The gateway owns everything that must happen before and around a
// model call: config precondition checks (no network activity on a config
// error), adapter selection, and the request deadline. Adapters own the wire
// formats; the gateway owns the policy.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tracepilot/tracepilot/internal/adapters"
	"github.com/tracepilot/tracepilot/internal/qerror"
)

// DefaultTimeout is the deadline applied to each model call.
const DefaultTimeout = 10 * time.Second

// ClientConfig selects a backend and carries its connection settings.
type ClientConfig struct {
	Model    adapters.Model
	APIKey   string // required for hosted models, ignored by the local one
	Endpoint string // optional base URL override
}

// Result is one completed model call. Immutable; owned by the caller that
// requested it.
type Result struct {
	Text  string
	Model adapters.Model
}

// Gateway dispatches prompts to the adapter selected by config.
type Gateway struct {
	registry *adapters.Registry
	timeout  time.Duration
}

// New creates a gateway over the given registry. A non-positive timeout
// falls back to DefaultTimeout.
func New(registry *adapters.Registry, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{registry: registry, timeout: timeout}
}

// Query validates config, dispatches the prompt to the matching adapter and
// returns the completion bound to the requested model identity.
//
// Precondition failures (unknown model, hosted model without a credential)
// short-circuit before any adapter call. The call runs under the configured
// deadline; once it expires the HTTP request is cancelled and a late reply
// from the backend is discarded by the transport.
func (g *Gateway) Query(ctx context.Context, cfg ClientConfig, prompt string) (*Result, error) {
	if !cfg.Model.Known() {
		return nil, qerror.Newf(qerror.KindConfig, "unsupported model %q", cfg.Model)
	}
	if cfg.Model.Hosted() && cfg.APIKey == "" {
		return nil, qerror.Newf(qerror.KindConfig, "model %q requires an API key", cfg.Model)
	}

	adapter := g.registry.For(cfg.Model)
	if adapter == nil {
		return nil, qerror.Newf(qerror.KindConfig, "no adapter registered for model %q", cfg.Model)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := adapter.Complete(ctx, adapters.Request{
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		Endpoint: cfg.Endpoint,
		Prompt:   prompt,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, qerror.Newf(qerror.KindTimeout, "model call exceeded the %s deadline", g.timeout)
		}
		return nil, err
	}

	log.Debug().
		Str("adapter", adapter.Name()).
		Str("model", string(cfg.Model)).
		Int("prompt_tokens_est", estimateTokens(prompt)).
		Dur("duration", time.Since(start)).
		Msg("model call completed")

	return &Result{Text: text, Model: cfg.Model}, nil
}
