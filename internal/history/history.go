// Package history persists the bounded question history.
//
// DESIGN: Append-only, newest-first, capped at MaxEntries. The orchestrator
// appends on success only; nothing else writes. MemoryStore covers a single
// process; SQLiteStore survives restarts of the serving binary.
package history

import (
	"context"
	"time"
)

// StorageKey is the fixed key the history is stored under.
const StorageKey = "tracepilot.query.history"

// MaxEntries bounds the history to the most recent entries.
const MaxEntries = 10

// Entry records one successfully answered question.
type Entry struct {
	Question  string    `json:"question"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is the persistence contract for the question history.
type Store interface {
	// Append records an entry and prunes anything beyond MaxEntries.
	Append(ctx context.Context, e Entry) error

	// Recent returns up to n entries, newest first.
	Recent(ctx context.Context, n int) ([]Entry, error)

	// Close cleans up resources.
	Close() error
}
