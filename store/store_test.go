package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imajayshakya/toolcat/core"
)

// storeBackends runs the same contract tests against every backend.
func storeBackends(t *testing.T) map[string]core.ToolStore {
	t.Helper()

	bolt, err := NewBoltStore(filepath.Join(t.TempDir(), "toolcat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { bolt.Close() })

	memory := NewMemoryStore()
	t.Cleanup(func() { memory.Close() })

	return map[string]core.ToolStore{
		"memory": memory,
		"bolt":   bolt,
	}
}

func strPtr(s string) *string { return &s }

func TestInsertAndGet(t *testing.T) {
	for name, ts := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			tool := core.Tool{
				ID:          "tool-1",
				Name:        "Pandas",
				Description: "tabular data analysis",
				Tags:        []string{"python", "data"},
				Metadata:    map[string]string{"lang": "python"},
			}

			created, err := ts.Insert(ctx, tool)
			require.NoError(t, err)
			assert.False(t, created.CreatedAt.IsZero(), "insert must stamp created_at")
			assert.Equal(t, created.CreatedAt, created.UpdatedAt)

			got, err := ts.Get(ctx, "tool-1")
			require.NoError(t, err)
			assert.Equal(t, "Pandas", got.Name)
			assert.Equal(t, []string{"python", "data"}, got.Tags)
			assert.Equal(t, map[string]string{"lang": "python"}, got.Metadata)
		})
	}
}

func TestInsertDuplicateFails(t *testing.T) {
	for name, ts := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tool := core.Tool{ID: "dup", Name: "A", Description: "a"}

			_, err := ts.Insert(ctx, tool)
			require.NoError(t, err)
			_, err = ts.Insert(ctx, tool)
			assert.Error(t, err)
		})
	}
}

func TestGetMissingIsNotFound(t *testing.T) {
	for name, ts := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := ts.Get(context.Background(), "missing")
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestUpdateAppliesPatch(t *testing.T) {
	for name, ts := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := ts.Insert(ctx, core.Tool{
				ID: "u1", Name: "Old", Description: "old description",
			})
			require.NoError(t, err)

			updated, err := ts.Update(ctx, "u1", core.ToolPatch{Name: strPtr("New")})
			require.NoError(t, err)
			assert.Equal(t, "New", updated.Name)
			assert.Equal(t, "old description", updated.Description, "unset fields stay untouched")
			assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

			_, err = ts.Update(ctx, "missing", core.ToolPatch{Name: strPtr("x")})
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestDelete(t *testing.T) {
	for name, ts := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := ts.Insert(ctx, core.Tool{ID: "d1", Name: "A", Description: "a"})
			require.NoError(t, err)

			require.NoError(t, ts.Delete(ctx, "d1"))
			assert.ErrorIs(t, ts.Delete(ctx, "d1"), core.ErrNotFound)

			_, err = ts.Get(ctx, "d1")
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestListPaging(t *testing.T) {
	for name, ts := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for i := 0; i < 5; i++ {
				_, err := ts.Insert(ctx, core.Tool{
					ID:          fmt.Sprintf("list-%d", i),
					Name:        fmt.Sprintf("Tool %d", i),
					Description: "d",
				})
				require.NoError(t, err)
			}

			all, err := ts.List(ctx, 0, 0)
			require.NoError(t, err)
			assert.Len(t, all, 5)

			page, err := ts.List(ctx, 2, 2)
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, "list-2", page[0].ID)
			assert.Equal(t, "list-3", page[1].ID)

			empty, err := ts.List(ctx, 10, 5)
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestHistoryAppendAndList(t *testing.T) {
	for name, ts := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for i := 0; i < 4; i++ {
				err := ts.AppendHistory(ctx, core.HistoryEntry{
					ID:        fmt.Sprintf("h-%d", i),
					Query:     fmt.Sprintf("query %d", i),
					ResultIDs: []string{"a", "b"},
				})
				require.NoError(t, err)
			}

			entries, err := ts.ListHistory(ctx, 10)
			require.NoError(t, err)
			require.Len(t, entries, 4)
			for i, entry := range entries {
				assert.Equal(t, fmt.Sprintf("h-%d", i), entry.ID, "chronological order")
			}

			// A limit keeps the most recent entries, still oldest
			// first.
			recent, err := ts.ListHistory(ctx, 2)
			require.NoError(t, err)
			require.Len(t, recent, 2)
			assert.Equal(t, "h-2", recent[0].ID)
			assert.Equal(t, "h-3", recent[1].ID)
		})
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "toolcat.db")

	first, err := NewBoltStore(path)
	require.NoError(t, err)

	_, err = first.Insert(ctx, core.Tool{ID: "p1", Name: "A", Description: "a"})
	require.NoError(t, err)
	require.NoError(t, first.AppendHistory(ctx, core.HistoryEntry{ID: "h1", Query: "q"}))
	require.NoError(t, first.Close())

	second, err := NewBoltStore(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	entries, err := second.ListHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "q", entries[0].Query)
}

func TestOpenFactory(t *testing.T) {
	memory, err := Open(Config{Type: TypeMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, memory)

	bolt, err := Open(Config{Type: TypeBolt, Path: filepath.Join(t.TempDir(), "f.db")})
	require.NoError(t, err)
	assert.IsType(t, &BoltStore{}, bolt)
	bolt.Close()

	_, err = Open(Config{Type: TypeBolt})
	assert.Error(t, err, "bolt requires a path")

	_, err = Open(Config{Type: "etcd"})
	assert.Error(t, err)
}
