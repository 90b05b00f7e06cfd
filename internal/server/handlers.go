package server

import (
	"encoding/json"
	"net/http"

	"github.com/tracepilot/tracepilot/internal/adapters"
	"github.com/tracepilot/tracepilot/internal/gateway"
	"github.com/tracepilot/tracepilot/internal/history"
	"github.com/tracepilot/tracepilot/internal/nlquery"
	"github.com/tracepilot/tracepilot/internal/qerror"
)

type queryRequest struct {
	Question string `json:"question"`
	Model    string `json:"model,omitempty"`    // defaults to gateway.model
	APIKey   string `json:"apiKey,omitempty"`   // defaults to providers config
	Endpoint string `json:"endpoint,omitempty"` // defaults to providers config
}

type queryResponse struct {
	Question string            `json:"question"`
	Filters  nlquery.FilterSet `json:"filters"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Kind  qerror.Kind `json:"kind"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, qerror.Wrap(qerror.KindConfig, "invalid request body", err))
		return
	}

	cfg := s.clientConfig(req)
	filters, err := s.orch.Ask(r.Context(), req.Question, cfg)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{Question: req.Question, Filters: filters})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.hist.Recent(r.Context(), history.MaxEntries)
	if err != nil {
		writeError(w, qerror.Wrap(qerror.KindConfig, "history unavailable", err))
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientConfig merges the request's overrides over the configured provider
// settings for the selected model.
func (s *Server) clientConfig(req queryRequest) gateway.ClientConfig {
	model := adapters.Model(req.Model)
	if req.Model == "" {
		model = adapters.Model(s.cfg.Gateway.Model)
	}

	cfg := gateway.ClientConfig{Model: model, APIKey: req.APIKey, Endpoint: req.Endpoint}
	if model.Hosted() {
		if cfg.APIKey == "" {
			cfg.APIKey = s.cfg.Providers.OpenAI.APIKey
		}
		if cfg.Endpoint == "" {
			cfg.Endpoint = s.cfg.Providers.OpenAI.BaseURL
		}
	} else if cfg.Endpoint == "" {
		cfg.Endpoint = s.cfg.Providers.Ollama.BaseURL
	}
	return cfg
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForKind(qerror.KindOf(err)), errorResponse{
		Error: err.Error(),
		Kind:  qerror.KindOf(err),
	})
}

// statusForKind maps the error taxonomy onto HTTP statuses. Upstream
// failures (protocol, parse, unreachable) are bad-gateway class; local
// precondition failures are the caller's fault.
func statusForKind(kind qerror.Kind) int {
	switch kind {
	case qerror.KindConfig:
		return http.StatusBadRequest
	case qerror.KindBusy:
		return http.StatusConflict
	case qerror.KindTimeout:
		return http.StatusGatewayTimeout
	case qerror.KindUnreachable, qerror.KindProtocol, qerror.KindModelNotInstalled, qerror.KindParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
