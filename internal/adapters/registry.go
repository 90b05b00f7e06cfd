// Registry manages adapter registration and lookup.
//
// DESIGN: Thread-safe map of model identity → Adapter. Built-in models are
// registered at startup; the two hosted variants share one adapter instance.
package adapters

import (
	"sync"
)

// Registry maps model identities to their adapters.
type Registry struct {
	adapters map[Model]Adapter
	mu       sync.RWMutex
}

// NewRegistry creates a registry with all built-in models registered.
func NewRegistry() *Registry {
	r := &Registry{
		adapters: make(map[Model]Adapter),
	}

	openai := NewOpenAIAdapter()
	r.Register(ModelGPT4, openai)
	r.Register(ModelGPT35, openai)
	r.Register(ModelLlama2, NewOllamaAdapter())

	return r
}

// Register binds a model identity to an adapter.
func (r *Registry) Register(model Model, adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[model] = adapter
}

// For returns the adapter for a model, or nil when the model is unknown.
func (r *Registry) For(model Model) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adapters[model]
}
