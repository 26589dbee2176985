package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/imajayshakya/toolcat/core"
)

const entryKeyPrefix = "e:"

// BadgerIndex is a durable vector index. Entries are persisted in
// BadgerDB and mirrored into a FlatIndex that serves queries; the
// in-memory side is rebuilt from disk on open, which is what makes the
// index a rebuildable projection rather than a second source of truth.
type BadgerIndex struct {
	db   *badger.DB
	flat *FlatIndex
	path string
}

// NewBadgerIndex opens (or creates) a BadgerDB-backed vector index and
// hydrates the in-memory search structure from disk.
func NewBadgerIndex(dbPath string, dimension int, metric core.DistanceMetric) (*BadgerIndex, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dbPath, err)
	}

	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable logging for cleaner output

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", dbPath, err)
	}

	idx := &BadgerIndex{
		db:   db,
		flat: NewFlatIndex(dimension, metric),
		path: dbPath,
	}

	if err := idx.hydrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to hydrate vector index: %w", err)
	}

	return idx, nil
}

func makeEntryKey(id string) []byte {
	return []byte(entryKeyPrefix + id)
}

// hydrate loads every persisted entry into the in-memory index.
func (b *BadgerIndex) hydrate() error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var entry Entry
				if err := json.Unmarshal(val, &entry); err != nil {
					return fmt.Errorf("failed to unmarshal entry %s: %w", it.Item().Key(), err)
				}
				return b.flat.Upsert(context.Background(), entry.ID, entry.Vector, entry.Payload)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Upsert persists the entry and then mirrors it into memory. The
// durable write commits first so a crash never loses an acknowledged
// vector. Validation runs before the disk write: a bad entry must
// never reach disk, or every later open would fail during hydration.
func (b *BadgerIndex) Upsert(ctx context.Context, id string, vector []float32, payload map[string]string) error {
	if err := b.flat.validateEntry(id, vector); err != nil {
		return err
	}

	entry := Entry{ID: id, Vector: vector, Payload: payload}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry %s: %w", id, err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeEntryKey(id), data)
	})
	if err != nil {
		return fmt.Errorf("failed to persist entry %s: %w", id, err)
	}

	return b.flat.Upsert(ctx, id, vector, payload)
}

// Delete removes the entry from disk and memory. Absent IDs are a
// no-op.
func (b *BadgerIndex) Delete(ctx context.Context, id string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(makeEntryKey(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id, err)
	}

	return b.flat.Delete(ctx, id)
}

// Query serves nearest-neighbor lookups from the in-memory index.
func (b *BadgerIndex) Query(ctx context.Context, vector []float32, limit int) ([]core.IndexResult, error) {
	return b.flat.Query(ctx, vector, limit)
}

// Size returns the number of indexed entries.
func (b *BadgerIndex) Size() int {
	return b.flat.Size()
}

// Close closes the BadgerDB database.
func (b *BadgerIndex) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
