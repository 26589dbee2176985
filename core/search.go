package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSearchLimit is used when a caller does not bound the result
// count.
const DefaultSearchLimit = 5

// Pipeline executes semantic queries: embed the query text, find the
// nearest identifiers in the vector index, hydrate full records from
// the record store, and append a history entry.
type Pipeline struct {
	store    ToolStore
	index    VectorIndex
	embedder Embedder
}

// NewPipeline creates a search pipeline over the given adapters.
func NewPipeline(store ToolStore, index VectorIndex, embedder Embedder) *Pipeline {
	return &Pipeline{
		store:    store,
		index:    index,
		embedder: embedder,
	}
}

// Search returns up to limit tools ranked by similarity to the query
// text, best first. Identifiers present in the vector index but absent
// from the record store are skipped silently; the result is shorter in
// that case, never padded. The history append is best effort: a
// failure there is logged and the results are still returned.
func (p *Pipeline) Search(ctx context.Context, query string, limit int) ([]SearchMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vector, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := p.index.Query(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	matches := make([]SearchMatch, 0, len(hits))
	resultIDs := make([]string, 0, len(hits))
	for _, hit := range hits {
		tool, err := p.store.Get(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Transient dual-store window, e.g. a delete landed
				// between the index query and hydration.
				continue
			}
			return nil, fmt.Errorf("hydrate %s: %w", hit.ID, err)
		}
		matches = append(matches, SearchMatch{Tool: tool, Score: hit.Score})
		resultIDs = append(resultIDs, hit.ID)
	}

	entry := HistoryEntry{
		ID:         uuid.NewString(),
		Query:      query,
		ResultIDs:  resultIDs,
		ExecutedAt: time.Now().UTC(),
	}
	if err := p.store.AppendHistory(ctx, entry); err != nil {
		log.Printf("search history append failed: %v", err)
	}

	return matches, nil
}

// History returns the most recent limit history entries in
// chronological order.
func (p *Pipeline) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	return p.store.ListHistory(ctx, limit)
}
