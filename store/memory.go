package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/imajayshakya/toolcat/core"
)

// MemoryStore implements in-memory record storage (non-persistent).
// Used for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	tools   map[string]core.Tool
	order   []string // insertion order for List
	history []core.HistoryEntry
}

// NewMemoryStore creates a new in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tools: make(map[string]core.Tool),
	}
}

// Insert stores a new tool and stamps its timestamps.
func (m *MemoryStore) Insert(ctx context.Context, tool core.Tool) (core.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tools[tool.ID]; exists {
		return core.Tool{}, fmt.Errorf("tool %s already exists", tool.ID)
	}

	now := time.Now().UTC()
	tool.CreatedAt = now
	tool.UpdatedAt = now

	m.tools[tool.ID] = tool
	m.order = append(m.order, tool.ID)
	return tool, nil
}

// Get retrieves a tool by ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (core.Tool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tool, exists := m.tools[id]
	if !exists {
		return core.Tool{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return tool, nil
}

// List returns tools in insertion order.
func (m *MemoryStore) List(ctx context.Context, offset, limit int) ([]core.Tool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(m.order) {
		return []core.Tool{}, nil
	}

	end := len(m.order)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	tools := make([]core.Tool, 0, end-offset)
	for _, id := range m.order[offset:end] {
		tools = append(tools, m.tools[id])
	}
	return tools, nil
}

// Update applies a patch and refreshes the update timestamp.
func (m *MemoryStore) Update(ctx context.Context, id string, patch core.ToolPatch) (core.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tool, exists := m.tools[id]
	if !exists {
		return core.Tool{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	tool = patch.Apply(tool)
	tool.UpdatedAt = time.Now().UTC()
	m.tools[id] = tool
	return tool, nil
}

// Delete removes a tool.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tools[id]; !exists {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	delete(m.tools, id)

	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// AppendHistory appends a search-history entry.
func (m *MemoryStore) AppendHistory(ctx context.Context, entry core.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, entry)
	return nil
}

// ListHistory returns the most recent limit entries in chronological
// order.
func (m *MemoryStore) ListHistory(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := 0
	if limit > 0 && len(m.history) > limit {
		start = len(m.history) - limit
	}

	entries := make([]core.HistoryEntry, len(m.history)-start)
	copy(entries, m.history[start:])
	return entries, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
