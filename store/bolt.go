package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/imajayshakya/toolcat/core"
)

const (
	toolsBucket   = "tools"
	historyBucket = "history"
)

// BoltStore implements the record store using BoltDB. Tools are keyed
// by ID; history entries are keyed by a zero-padded bucket sequence so
// a forward cursor walks them in append order.
type BoltStore struct {
	db   *bbolt.DB
	path string
}

// NewBoltStore opens (or creates) a BoltDB-backed record store.
func NewBoltStore(dbPath string) (*BoltStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB at %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(toolsBucket)); err != nil {
			return fmt.Errorf("failed to create tools bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(historyBucket)); err != nil {
			return fmt.Errorf("failed to create history bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, path: dbPath}, nil
}

// Insert stores a new tool and stamps its timestamps.
func (b *BoltStore) Insert(ctx context.Context, tool core.Tool) (core.Tool, error) {
	now := time.Now().UTC()
	tool.CreatedAt = now
	tool.UpdatedAt = now

	data, err := json.Marshal(tool)
	if err != nil {
		return core.Tool{}, fmt.Errorf("failed to marshal tool: %w", err)
	}

	err = b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(toolsBucket))
		if bucket.Get([]byte(tool.ID)) != nil {
			return fmt.Errorf("tool %s already exists", tool.ID)
		}
		return bucket.Put([]byte(tool.ID), data)
	})
	if err != nil {
		return core.Tool{}, err
	}

	return tool, nil
}

// Get retrieves a tool by ID.
func (b *BoltStore) Get(ctx context.Context, id string) (core.Tool, error) {
	var tool core.Tool

	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(toolsBucket)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return json.Unmarshal(data, &tool)
	})
	if err != nil {
		return core.Tool{}, err
	}

	return tool, nil
}

// List returns tools in key order.
func (b *BoltStore) List(ctx context.Context, offset, limit int) ([]core.Tool, error) {
	var tools []core.Tool
	if offset < 0 {
		offset = 0
	}

	err := b.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket([]byte(toolsBucket)).Cursor()
		skipped := 0
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			if limit > 0 && len(tools) >= limit {
				break
			}
			var tool core.Tool
			if err := json.Unmarshal(v, &tool); err != nil {
				return fmt.Errorf("failed to unmarshal tool %s: %w", string(k), err)
			}
			tools = append(tools, tool)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tools == nil {
		tools = []core.Tool{}
	}
	return tools, nil
}

// Update applies a patch in a single read-modify-write transaction.
func (b *BoltStore) Update(ctx context.Context, id string, patch core.ToolPatch) (core.Tool, error) {
	var tool core.Tool

	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(toolsBucket))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		if err := json.Unmarshal(data, &tool); err != nil {
			return fmt.Errorf("failed to unmarshal tool %s: %w", id, err)
		}

		tool = patch.Apply(tool)
		tool.UpdatedAt = time.Now().UTC()

		updated, err := json.Marshal(tool)
		if err != nil {
			return fmt.Errorf("failed to marshal tool: %w", err)
		}
		return bucket.Put([]byte(id), updated)
	})
	if err != nil {
		return core.Tool{}, err
	}

	return tool, nil
}

// Delete removes a tool.
func (b *BoltStore) Delete(ctx context.Context, id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(toolsBucket))
		if bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return bucket.Delete([]byte(id))
	})
}

// AppendHistory appends a search-history entry under the next bucket
// sequence number.
func (b *BoltStore) AppendHistory(ctx context.Context, entry core.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate history sequence: %w", err)
		}
		key := fmt.Sprintf("%016d", seq)
		return bucket.Put([]byte(key), data)
	})
}

// ListHistory returns the most recent limit entries in chronological
// order.
func (b *BoltStore) ListHistory(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	var entries []core.HistoryEntry

	err := b.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket([]byte(historyBucket)).Cursor()

		// Walk backwards to find the newest limit entries, then
		// reverse so the caller sees them oldest first.
		var newest []core.HistoryEntry
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			if limit > 0 && len(newest) >= limit {
				break
			}
			var entry core.HistoryEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal history entry %s: %w", string(k), err)
			}
			newest = append(newest, entry)
		}

		entries = make([]core.HistoryEntry, len(newest))
		for i, entry := range newest {
			entries[len(newest)-1-i] = entry
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Close closes the underlying BoltDB database.
func (b *BoltStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
