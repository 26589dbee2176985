package core

import (
	"strings"
	"time"
)

// Tool is a catalog record. The record store is the source of truth for
// every field; the vector index carries a derived, rebuildable
// projection keyed by the same ID.
type Tool struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToolPatch is a partial update. Nil fields are left untouched.
type ToolPatch struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Tags        *[]string          `json:"tags,omitempty"`
	Metadata    *map[string]string `json:"metadata,omitempty"`
}

// Apply returns a copy of t with the patch's set fields applied.
func (p ToolPatch) Apply(t Tool) Tool {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.Metadata != nil {
		t.Metadata = *p.Metadata
	}
	return t
}

// Empty reports whether the patch sets no fields.
func (p ToolPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Tags == nil && p.Metadata == nil
}

// HistoryEntry records one executed search. The history log is
// append-only; entries are never mutated or deleted.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	ResultIDs  []string  `json:"result_ids"`
	ExecutedAt time.Time `json:"executed_at"`
}

// SearchMatch pairs a hydrated tool with its similarity score.
type SearchMatch struct {
	Tool  Tool    `json:"tool"`
	Score float32 `json:"score"`
}

// IndexResult is a single nearest-neighbor hit from the vector index.
type IndexResult struct {
	ID    string  `json:"id"`
	Score float32 `json:"score"`
}

// EmbedText renders the searchable text for a record. The embedding is
// derived from the whole description surface, not the name alone.
func EmbedText(name, description string, tags []string) string {
	return name + ". " + description + ". Tags: " + strings.Join(tags, ", ")
}

// IndexPayload builds the minimal payload mirrored into the vector
// index alongside the embedding.
func IndexPayload(t Tool) map[string]string {
	return map[string]string{
		"name":        t.Name,
		"description": t.Description,
		"tags":        strings.Join(t.Tags, ","),
	}
}
