package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracepilot/tracepilot/internal/qerror"
)

// =============================================================================
// SUCCESS PATH
// =============================================================================

func TestOllama_Complete(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"response":"{\"status\":\"all\"}"}`))
	}))
	defer srv.Close()

	adapter := NewOllamaAdapter()
	text, err := adapter.Complete(context.Background(), Request{
		Model: ModelLlama2, Endpoint: srv.URL, Prompt: "find traces",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"status":"all"}`, text)
	assert.Equal(t, "llama2", gotBody["model"])
	assert.Equal(t, "find traces", gotBody["prompt"])
	assert.Equal(t, false, gotBody["stream"])
}

// =============================================================================
// ERROR PATHS
// =============================================================================

func TestOllama_ModelMissing_IsModelNotInstalled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'llama2' not found, try pulling it first"}`))
	}))
	defer srv.Close()

	adapter := NewOllamaAdapter()
	_, err := adapter.Complete(context.Background(), Request{
		Model: ModelLlama2, Endpoint: srv.URL, Prompt: "q",
	})

	require.Error(t, err)
	assert.Equal(t, qerror.KindModelNotInstalled, qerror.KindOf(err))
	assert.Contains(t, err.Error(), "ollama pull llama2")
	assert.True(t, qerror.IsProtocol(err))
}

func TestOllama_NonSuccess_SurfacesErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"something broke"}`))
	}))
	defer srv.Close()

	adapter := NewOllamaAdapter()
	_, err := adapter.Complete(context.Background(), Request{
		Model: ModelLlama2, Endpoint: srv.URL, Prompt: "q",
	})

	require.Error(t, err)
	assert.Equal(t, qerror.KindProtocol, qerror.KindOf(err))
	assert.Contains(t, err.Error(), "something broke")
}

func TestOllama_NonSuccess_FallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`<html>busy</html>`))
	}))
	defer srv.Close()

	adapter := NewOllamaAdapter()
	_, err := adapter.Complete(context.Background(), Request{
		Model: ModelLlama2, Endpoint: srv.URL, Prompt: "q",
	})

	require.Error(t, err)
	assert.Equal(t, qerror.KindProtocol, qerror.KindOf(err))
	assert.Contains(t, err.Error(), "503")
}

func TestOllama_ConnectionFailure_NamesEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // refuse connections

	adapter := NewOllamaAdapter()
	_, err := adapter.Complete(context.Background(), Request{
		Model: ModelLlama2, Endpoint: url, Prompt: "q",
	})

	require.Error(t, err)
	assert.Equal(t, qerror.KindUnreachable, qerror.KindOf(err))
	assert.Contains(t, err.Error(), url)
}
