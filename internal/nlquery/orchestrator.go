package nlquery

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tracepilot/tracepilot/internal/gateway"
	"github.com/tracepilot/tracepilot/internal/history"
	"github.com/tracepilot/tracepilot/internal/qerror"
)

// Orchestrator sequences one query end to end: validate, prompt, gateway,
// extract, compile, record. One request at a time per instance; a second
// Ask while one is outstanding is rejected rather than queued.
type Orchestrator struct {
	gw      *gateway.Gateway
	history history.Store
	busy    atomic.Bool
}

// New creates an orchestrator. hist may be nil when history recording is
// not wanted.
func New(gw *gateway.Gateway, hist history.Store) *Orchestrator {
	return &Orchestrator{gw: gw, history: hist}
}

// Ask answers a free-text trace question with a compiled FilterSet.
//
// Every failure returns exactly one qerror kind. History is appended on
// success only; a gateway timeout surfaces before the append, so a reply
// arriving after cancellation can never mutate history.
func (o *Orchestrator) Ask(ctx context.Context, question string, cfg gateway.ClientConfig) (FilterSet, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, qerror.New(qerror.KindConfig, "question must not be empty")
	}

	if !o.busy.CompareAndSwap(false, true) {
		return nil, qerror.New(qerror.KindBusy, "a query is already in flight")
	}
	defer o.busy.Store(false)

	res, err := o.gw.Query(ctx, cfg, BuildPrompt(question))
	if err != nil {
		return nil, err
	}

	sq, err := Extract(res.Text, question)
	if err != nil {
		return nil, err
	}

	filters := Compile(sq)

	if o.history != nil {
		if err := o.history.Append(ctx, history.Entry{
			Question:  question,
			Timestamp: time.Now(),
		}); err != nil {
			// A history write failure does not fail the answered query.
			log.Warn().Err(err).Msg("history append failed")
		}
	}

	log.Info().
		Str("model", string(res.Model)).
		Int("filters", len(filters)).
		Msg("question compiled to filters")

	return filters, nil
}
