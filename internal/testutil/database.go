// Package testutil provides isolated state stores for tests.
package testutil

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finlens/internal/storage"
)

// NewMemoryStore returns an empty in-memory store closed on cleanup.
func NewMemoryStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// NewSQLiteStore returns a migrated SQLite store in a temporary directory,
// closed on cleanup.
func NewSQLiteStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "finlens.db"))
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, store.Migrate(context.Background()), "failed to run migrations")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Setter is the write half of a store.
type Setter interface {
	Set(ctx context.Context, key string, value []byte) error
}

// SeedRaw stores a raw JSON document verbatim.
func SeedRaw(t *testing.T, s Setter, key, raw string) {
	t.Helper()
	require.NoError(t, s.Set(context.Background(), key, []byte(raw)))
}

// SeedJSON marshals v and stores it under key.
func SeedJSON(t *testing.T, s Setter, key string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), key, data))
}
