package core

import "errors"

// Common errors. Callers match with errors.Is; every mutation is
// independently retryable.
var (
	// ErrNotFound indicates the target identifier is absent. Terminal.
	ErrNotFound = errors.New("tool not found")

	// ErrInvalidQuery indicates malformed caller input to search.
	ErrInvalidQuery = errors.New("invalid search query")

	// ErrInvalidTool indicates a create or patch that fails validation.
	ErrInvalidTool = errors.New("invalid tool")

	// ErrEmbeddingUnavailable indicates the embedding computation
	// failed. Retryable after backoff.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrSyncFailure indicates a mutation was fully rolled back. The
	// whole operation is safe to retry.
	ErrSyncFailure = errors.New("store sync failed, mutation rolled back")

	// ErrPartialSync indicates the record store committed but the
	// vector index did not. The record is valid; only the vector-side
	// write needs a retry.
	ErrPartialSync = errors.New("record committed, vector index stale")
)
