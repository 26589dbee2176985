package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/imajayshakya/toolcat/core"
)

// Entry is one indexed vector with its mirrored payload.
type Entry struct {
	ID      string            `json:"id"`
	Vector  []float32         `json:"vector"`
	Payload map[string]string `json:"payload,omitempty"`
}

// FlatIndex implements brute-force exact nearest-neighbor search over
// an in-memory map. Results are ranked best-first with ties broken by
// ID so identical inputs always produce identical orderings.
type FlatIndex struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	dimension int
	metric    core.DistanceMetric
}

// NewFlatIndex creates a new flat index.
func NewFlatIndex(dimension int, metric core.DistanceMetric) *FlatIndex {
	return &FlatIndex{
		entries:   make(map[string]Entry),
		dimension: dimension,
		metric:    metric,
	}
}

// validateEntry checks an entry before it is accepted by any backend.
func (f *FlatIndex) validateEntry(id string, vector []float32) error {
	if id == "" {
		return fmt.Errorf("vector entry requires an ID")
	}
	if len(vector) != f.dimension {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vector), f.dimension)
	}
	return nil
}

// Upsert adds or replaces a vector entry.
func (f *FlatIndex) Upsert(ctx context.Context, id string, vector []float32, payload map[string]string) error {
	if err := f.validateEntry(id, vector); err != nil {
		return err
	}

	stored := make([]float32, len(vector))
	copy(stored, vector)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[id] = Entry{ID: id, Vector: stored, Payload: payload}
	return nil
}

// Delete removes a vector entry. Deleting an absent ID is a no-op.
func (f *FlatIndex) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.entries, id)
	return nil
}

// Query performs brute-force search for the limit nearest entries.
func (f *FlatIndex) Query(ctx context.Context, vector []float32, limit int) ([]core.IndexResult, error) {
	if len(vector) != f.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(vector), f.dimension)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("query limit must be positive, got %d", limit)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	results := make([]core.IndexResult, 0, len(f.entries))
	for id, entry := range f.entries {
		score, err := core.Similarity(vector, entry.Vector, f.metric)
		if err != nil {
			return nil, fmt.Errorf("similarity calculation failed: %w", err)
		}
		results = append(results, core.IndexResult{ID: id, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if limit > len(results) {
		limit = len(results)
	}
	return results[:limit], nil
}

// Size returns the number of indexed entries.
func (f *FlatIndex) Size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}

// Close is a no-op for the in-memory index.
func (f *FlatIndex) Close() error {
	return nil
}
