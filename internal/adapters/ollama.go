package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tracepilot/tracepilot/internal/qerror"
)

// DefaultOllamaBaseURL is the well-known loopback address of a local
// Ollama daemon.
const DefaultOllamaBaseURL = "http://localhost:11434"

// OllamaAdapter issues generate requests to a local Ollama daemon. No
// credential is needed; the base URL is configurable for non-default
// daemon ports.
type OllamaAdapter struct {
	HTTPClient *http.Client
}

// NewOllamaAdapter creates a new local-backend adapter.
func NewOllamaAdapter() *OllamaAdapter {
	return &OllamaAdapter{}
}

// Name returns the adapter identifier.
func (a *OllamaAdapter) Name() string { return "ollama" }

type ollamaGenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

type ollamaErrorResponse struct {
	Error string `json:"error"`
}

// Complete sends the prompt to the generate endpoint with streaming
// disabled and returns the full reply text.
func (a *OllamaAdapter) Complete(ctx context.Context, req Request) (string, error) {
	base := strings.TrimRight(req.Endpoint, "/")
	if base == "" {
		base = DefaultOllamaBaseURL
	}
	url := base + "/api/generate"

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:       string(req.Model),
		Prompt:      req.Prompt,
		Stream:      false,
		Temperature: completionTemperature,
	})
	if err != nil {
		return "", qerror.Wrap(qerror.KindProtocol, "ollama: marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", qerror.Wrap(qerror.KindProtocol, "ollama: build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client().Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", qerror.Wrap(qerror.KindUnreachable,
			fmt.Sprintf("ollama: cannot reach %s (is the daemon running?)", base), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", qerror.Wrap(qerror.KindProtocol, "ollama: read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		var parsed ollamaErrorResponse
		if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.Error != "" {
			msg = truncate(parsed.Error, maxErrorBodyLen)
		}
		if isModelMissing(msg) {
			return "", qerror.Newf(qerror.KindModelNotInstalled,
				"ollama: model %q is not installed: run `ollama pull %s`", req.Model, req.Model)
		}
		return "", qerror.New(qerror.KindProtocol, "ollama: "+msg)
	}

	var parsed ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", qerror.Wrap(qerror.KindProtocol, "ollama: parse response", err)
	}
	return parsed.Response, nil
}

func (a *OllamaAdapter) client() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

// isModelMissing matches the daemon's "model 'X' not found, try pulling it
// first" error text.
func isModelMissing(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "model") && strings.Contains(lower, "not found")
}

// Ensure OllamaAdapter implements Adapter
var _ Adapter = (*OllamaAdapter)(nil)
