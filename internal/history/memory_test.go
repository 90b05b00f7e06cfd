package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_NewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Append(ctx, Entry{
			Question:  fmt.Sprintf("question %d", i),
			Timestamp: time.Now(),
		}))
	}

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "question 3", entries[0].Question)
	assert.Equal(t, "question 1", entries[2].Question)
}

func TestMemoryStore_CappedAtMaxEntries(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= MaxEntries+5; i++ {
		require.NoError(t, s.Append(ctx, Entry{
			Question:  fmt.Sprintf("question %d", i),
			Timestamp: time.Now(),
		}))
	}

	entries, err := s.Recent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, "question 15", entries[0].Question)
	assert.Equal(t, "question 6", entries[MaxEntries-1].Question)
}

func TestMemoryStore_RecentLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Append(ctx, Entry{Question: fmt.Sprintf("q%d", i)}))
	}

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "q5", entries[0].Question)
}

func TestMemoryStore_Empty(t *testing.T) {
	s := NewMemoryStore()

	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
