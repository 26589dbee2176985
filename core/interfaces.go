package core

import "context"

// ToolStore is the record store adapter: durable storage for tool
// records and the search-history log. Each call succeeds or fails
// atomically for a single identifier.
type ToolStore interface {
	// Insert stores a new tool and returns it with store-assigned
	// timestamps set.
	Insert(ctx context.Context, tool Tool) (Tool, error)

	// Get returns a tool by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Tool, error)

	// List returns tools in insertion order, skipping offset entries
	// and returning at most limit.
	List(ctx context.Context, offset, limit int) ([]Tool, error)

	// Update applies a patch and returns the updated tool, or
	// ErrNotFound.
	Update(ctx context.Context, id string, patch ToolPatch) (Tool, error)

	// Delete removes a tool, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// AppendHistory appends a search-history entry.
	AppendHistory(ctx context.Context, entry HistoryEntry) error

	// ListHistory returns the most recent limit entries in
	// chronological order.
	ListHistory(ctx context.Context, limit int) ([]HistoryEntry, error)

	// Close releases the underlying storage.
	Close() error
}

// VectorIndex is the derived nearest-neighbor store. Deleting an
// absent ID is a no-op so mutations stay retryable.
type VectorIndex interface {
	Upsert(ctx context.Context, id string, vector []float32, payload map[string]string) error
	Delete(ctx context.Context, id string) error

	// Query returns up to limit nearest entries ranked best-first,
	// ties broken by ID.
	Query(ctx context.Context, vector []float32, limit int) ([]IndexResult, error)

	Close() error
}

// Embedder maps text to a fixed-dimension vector. Deterministic for
// identical input within a model version.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int

	// Warm pre-initializes the engine; the first embedding may be slow
	// without it.
	Warm(ctx context.Context) error

	Close() error
}
