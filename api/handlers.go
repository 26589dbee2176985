package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/imajayshakya/toolcat/core"
)

const (
	defaultListLimit    = 100
	defaultHistoryLimit = 50
	maxSearchLimit      = 50
)

// HealthResponse reports server health per backing store.
type HealthResponse struct {
	Status      string    `json:"status"`
	RecordStore string    `json:"record_store"`
	VectorIndex string    `json:"vector_index"`
	Timestamp   time.Time `json:"timestamp"`
}

// CreateToolRequest is the payload for POST /tools.
type CreateToolRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// SearchRequest is the payload for POST /tools/search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// respondWithDomainError maps core errors onto HTTP status codes.
func (s *Server) respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		s.respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidTool), errors.Is(err, core.ErrInvalidQuery):
		s.respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrEmbeddingUnavailable):
		s.respondWithError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, core.ErrSyncFailure):
		s.respondWithError(w, http.StatusBadGateway, err.Error())
	default:
		s.respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleRoot describes the API surface.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "toolcat API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"insert":  "/tools",
			"list":    "/tools",
			"get":     "/tools/{id}",
			"update":  "/tools/{id}",
			"delete":  "/tools/{id}",
			"search":  "/tools/search",
			"history": "/search/history",
			"health":  "/health",
		},
	})
}

// handleHealth probes both backing stores and reports connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	storeErr, indexErr := s.coordinator.Health(r.Context())

	response := HealthResponse{
		Status:      "healthy",
		RecordStore: "connected",
		VectorIndex: "connected",
		Timestamp:   time.Now().UTC(),
	}
	code := http.StatusOK

	if storeErr != nil {
		response.Status = "unhealthy"
		response.RecordStore = storeErr.Error()
		code = http.StatusServiceUnavailable
	}
	if indexErr != nil {
		response.Status = "unhealthy"
		response.VectorIndex = indexErr.Error()
		code = http.StatusServiceUnavailable
	}

	s.respondWithJSON(w, code, response)
}

// handleCreateTool inserts a new tool into both stores.
func (s *Server) handleCreateTool(w http.ResponseWriter, r *http.Request) {
	var req CreateToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tool := core.Tool{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Metadata:    req.Metadata,
	}

	created, err := s.coordinator.Create(r.Context(), tool)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, created)
}

// handleListTools returns tools with skip/limit paging.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", defaultListLimit)

	tools, err := s.coordinator.List(r.Context(), skip, limit)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, tools)
}

// handleGetTool returns a single tool by ID.
func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	tool, err := s.coordinator.Get(r.Context(), id)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, tool)
}

// handleUpdateTool applies a partial update.
func (s *Server) handleUpdateTool(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch core.ToolPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := s.coordinator.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, core.ErrPartialSync) {
			// The record committed; report the stale vector side but
			// hand back the updated record for the retry decision.
			s.respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error": err.Error(),
				"tool":  updated,
			})
			return
		}
		s.respondWithDomainError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, updated)
}

// handleDeleteTool removes a tool from both stores.
func (s *Server) handleDeleteTool(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.coordinator.Delete(r.Context(), id); err != nil {
		s.respondWithDomainError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Tool deleted successfully",
		"id":      id,
	})
}

// handleSearch performs semantic search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Limit > maxSearchLimit {
		s.respondWithError(w, http.StatusBadRequest, "limit exceeds maximum of 50")
		return
	}

	matches, err := s.pipeline.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, matches)
}

// handleHistory returns recent search-history entries.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultHistoryLimit)

	entries, err := s.pipeline.History(r.Context(), limit)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, entries)
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
