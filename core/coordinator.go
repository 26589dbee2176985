package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Coordinator keeps the record store and the vector index mutually
// consistent across mutations. The record store is the source of
// truth; the vector index is a derived projection that can be rebuilt
// from it. Each mutation runs as an explicit primary-write /
// secondary-write sequence with compensation on partial failure, so
// callers observe full success, a rolled-back no-op (ErrSyncFailure),
// or a committed record with a stale vector (ErrPartialSync).
//
// The coordinator holds no locks across identifiers and never retries
// internally; retry policy belongs to the caller.
type Coordinator struct {
	store    ToolStore
	index    VectorIndex
	embedder Embedder
}

// NewCoordinator creates a coordinator over the given adapters.
func NewCoordinator(store ToolStore, index VectorIndex, embedder Embedder) *Coordinator {
	return &Coordinator{
		store:    store,
		index:    index,
		embedder: embedder,
	}
}

// Create validates and inserts a new tool into both stores, returning
// the stored record. The record store is written first; if the vector
// write fails, the fresh record is deleted again and ErrSyncFailure is
// returned. An orphan record that never surfaces in search is the
// worse failure mode than a failed create.
func (c *Coordinator) Create(ctx context.Context, tool Tool) (Tool, error) {
	if err := ValidateNewTool(tool); err != nil {
		return Tool{}, err
	}
	tool.ID = uuid.NewString()

	vector, err := c.embedder.Embed(ctx, EmbedText(tool.Name, tool.Description, tool.Tags))
	if err != nil {
		return Tool{}, err
	}

	created, err := c.store.Insert(ctx, tool)
	if err != nil {
		return Tool{}, fmt.Errorf("record store insert: %w", err)
	}

	if err := c.index.Upsert(ctx, created.ID, vector, IndexPayload(created)); err != nil {
		// Compensate: the fresh record must not outlive its failed
		// vector write.
		if delErr := c.store.Delete(ctx, created.ID); delErr != nil {
			return Tool{}, fmt.Errorf("%w: vector upsert failed (%v), compensation failed (%v)", ErrSyncFailure, err, delErr)
		}
		return Tool{}, fmt.Errorf("%w: vector upsert: %v", ErrSyncFailure, err)
	}

	return created, nil
}

// Update applies a patch to an existing tool. The record store commits
// first. When the embedded text changed the vector entry is recomputed
// and overwritten; a failure there leaves the record store as is (the
// textual data is still correct) and returns ErrPartialSync so the
// caller can retry the vector-side write. When the embedded text is
// unchanged the vector index is left untouched.
func (c *Coordinator) Update(ctx context.Context, id string, patch ToolPatch) (Tool, error) {
	if err := ValidatePatch(patch); err != nil {
		return Tool{}, err
	}

	before, err := c.store.Get(ctx, id)
	if err != nil {
		return Tool{}, err
	}

	updated, err := c.store.Update(ctx, id, patch)
	if err != nil {
		return Tool{}, err
	}

	oldText := EmbedText(before.Name, before.Description, before.Tags)
	newText := EmbedText(updated.Name, updated.Description, updated.Tags)
	if oldText == newText {
		return updated, nil
	}

	vector, err := c.embedder.Embed(ctx, newText)
	if err != nil {
		return updated, fmt.Errorf("%w: recompute embedding: %w", ErrPartialSync, err)
	}

	// A delete may have landed after our record write. The vector
	// write must not resurrect an entry for a vanished record, so the
	// record's existence is re-checked immediately before committing.
	// Any other failure here still leaves the record committed with a
	// stale vector, so it reports as partial sync.
	if _, err := c.store.Get(ctx, updated.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Tool{}, err
		}
		return updated, fmt.Errorf("%w: existence re-check: %v", ErrPartialSync, err)
	}

	if err := c.index.Upsert(ctx, updated.ID, vector, IndexPayload(updated)); err != nil {
		return updated, fmt.Errorf("%w: vector upsert: %v", ErrPartialSync, err)
	}

	return updated, nil
}

// Delete removes a tool from both stores, vector index first. A record
// that has dropped out of search but is still readable by direct
// lookup is an acceptable transient state; a deleted-looking record
// still surfacing in search is not. If the index delete fails, the
// record store is left intact and the whole delete can be retried.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	if _, err := c.store.Get(ctx, id); err != nil {
		return err
	}

	if err := c.index.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: vector delete: %v", ErrSyncFailure, err)
	}

	if err := c.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Lost the race against a concurrent delete.
			return err
		}
		return fmt.Errorf("%w: record delete: %v", ErrSyncFailure, err)
	}

	return nil
}

// Health probes both stores with cheap reads and reports each side's
// connectivity. The index probe queries with a zero vector of the
// embedder's dimension; it exercises the backend without touching any
// entry.
func (c *Coordinator) Health(ctx context.Context) (storeErr, indexErr error) {
	_, storeErr = c.store.List(ctx, 0, 1)
	_, indexErr = c.index.Query(ctx, make([]float32, c.embedder.Dimension()), 1)
	return storeErr, indexErr
}

// Get passes through to the record store.
func (c *Coordinator) Get(ctx context.Context, id string) (Tool, error) {
	return c.store.Get(ctx, id)
}

// List passes through to the record store.
func (c *Coordinator) List(ctx context.Context, offset, limit int) ([]Tool, error) {
	return c.store.List(ctx, offset, limit)
}
