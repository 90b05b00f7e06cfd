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

const (
	// DefaultOpenAIBaseURL is the hosted chat-completions endpoint.
	DefaultOpenAIBaseURL = "https://api.openai.com"

	// maxResponseSize bounds response reads to prevent OOM on unexpectedly
	// large bodies.
	maxResponseSize = 1 * 1024 * 1024

	// maxErrorBodyLen limits upstream error bodies quoted in our errors.
	maxErrorBodyLen = 500

	completionTemperature = 0.1
	completionMaxTokens   = 500
)

// OpenAIAdapter issues chat-completion requests to the hosted backend.
// Both hosted model variants share this wire format.
type OpenAIAdapter struct {
	// HTTPClient overrides the default client (used by tests). Timeouts come
	// from the request context, not the client.
	HTTPClient *http.Client
}

// NewOpenAIAdapter creates a new hosted-backend adapter.
func NewOpenAIAdapter() *OpenAIAdapter {
	return &OpenAIAdapter{}
}

// Name returns the adapter identifier.
func (a *OpenAIAdapter) Name() string { return "openai" }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt as a single user message and returns the first
// choice's content. An empty choices array yields "" — "no comment from the
// model" is a valid reply, not a fault.
func (a *OpenAIAdapter) Complete(ctx context.Context, req Request) (string, error) {
	base := strings.TrimRight(req.Endpoint, "/")
	if base == "" {
		base = DefaultOpenAIBaseURL
	}
	url := base + "/v1/chat/completions"

	body, err := json.Marshal(openAIChatRequest{
		Model:       string(req.Model),
		Messages:    []openAIMessage{{Role: "user", Content: req.Prompt}},
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		return "", qerror.Wrap(qerror.KindProtocol, "openai: marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", qerror.Wrap(qerror.KindProtocol, "openai: build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := a.client().Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", qerror.Wrap(qerror.KindUnreachable, "openai: cannot reach "+base, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", qerror.Wrap(qerror.KindProtocol, "openai: read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", qerror.New(qerror.KindProtocol, "openai: "+upstreamMessage(respBody, resp.Status))
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", qerror.Wrap(qerror.KindProtocol, "openai: parse response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func (a *OpenAIAdapter) client() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

// upstreamMessage extracts the provider's error.message field, falling back
// to the transport status line. The body is truncated to keep our error
// payloads bounded.
func upstreamMessage(body []byte, status string) string {
	var parsed openAIErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return truncate(parsed.Error.Message, maxErrorBodyLen)
	}
	return status
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return fmt.Sprintf("%s... (truncated)", s[:max])
}

// Ensure OpenAIAdapter implements Adapter
var _ Adapter = (*OpenAIAdapter)(nil)
