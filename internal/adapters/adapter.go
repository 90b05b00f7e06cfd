// Package adapters provides backend-specific LLM completion clients.
//
// DESIGN: The query pipeline supports a closed set of model backends. Two
// hosted variants share the OpenAI chat-completions wire format; the local
// variant speaks the Ollama generate protocol. Adapters abstract the wire
// differences behind one contract:
//
//	Complete(ctx, Request) -> completion text
//
// FLOW:
//  1. Gateway validates config and picks the adapter from the registry
//  2. Adapter issues a single non-streaming HTTP call
//  3. Adapter returns the completion text, or a classified error
//
// Adapters are stateless and thread-safe. To add a backend: implement
// Adapter and register its models in the Registry.
package adapters

import "context"

// Model identifies one of the supported backend variants.
type Model string

const (
	ModelGPT4   Model = "gpt-4"
	ModelGPT35  Model = "gpt-3.5-turbo"
	ModelLlama2 Model = "llama2"
)

// Hosted reports whether the model runs on a hosted backend that requires
// an API key. The local Ollama variant never does.
func (m Model) Hosted() bool {
	return m == ModelGPT4 || m == ModelGPT35
}

// Known reports whether m is one of the supported variants.
func (m Model) Known() bool {
	switch m {
	case ModelGPT4, ModelGPT35, ModelLlama2:
		return true
	}
	return false
}

// Request carries everything an adapter needs for one completion call.
type Request struct {
	Model    Model
	APIKey   string // bearer credential, hosted backends only
	Endpoint string // base URL override; empty means the backend default
	Prompt   string
}

// Adapter is the unified interface for backend-specific completion calls.
type Adapter interface {
	// Name returns the adapter identifier (e.g., "openai", "ollama").
	Name() string

	// Complete issues one completion request and returns the reply text.
	// An empty reply is valid and returned as "", not an error.
	// Cancellation of ctx aborts the in-flight HTTP call; the context error
	// is returned unwrapped so the gateway can classify it as a timeout.
	Complete(ctx context.Context, req Request) (string, error)
}
