package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	storage_key TEXT NOT NULL,
	question    TEXT NOT NULL,
	ts          TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_key ON history (storage_key, id DESC);
`

// SQLiteStore persists the history in a local SQLite database so it
// survives restarts. Rows are scoped by StorageKey.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts the entry and prunes rows beyond MaxEntries.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history append: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (storage_key, question, ts) VALUES (?, ?, ?)`,
		StorageKey, e.Question, e.Timestamp,
	); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM history WHERE storage_key = ? AND id NOT IN (
			SELECT id FROM history WHERE storage_key = ? ORDER BY id DESC LIMIT ?
		)`,
		StorageKey, StorageKey, MaxEntries,
	); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}

	return tx.Commit()
}

// Recent returns up to n entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 || n > MaxEntries {
		n = MaxEntries
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT question, ts FROM history WHERE storage_key = ? ORDER BY id DESC LIMIT ?`,
		StorageKey, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Question, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
