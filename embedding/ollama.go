package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// OllamaEngine generates embeddings through Ollama's HTTP API. The
// model is loaded and served by the Ollama process; the first request
// after startup carries the warm-up cost, so Warm should run before
// the engine is put in the request path.
type OllamaEngine struct {
	endpoint   string
	model      string
	dimension  int
	httpClient *http.Client

	mu          sync.RWMutex
	initialized bool
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewOllamaEngine creates an Ollama embedding engine. The endpoint
// defaults to the local Ollama daemon.
func NewOllamaEngine(endpoint, model string, dimension int) (*OllamaEngine, error) {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	if model == "" {
		return nil, fmt.Errorf("ollama engine requires a model name")
	}

	return &OllamaEngine{
		endpoint:  endpoint,
		model:     model,
		dimension: dimension,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Embed generates an embedding for the given text.
func (e *OllamaEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, Unavailable("Embed", e.model, fmt.Errorf("input empty after normalization"))
	}

	e.mu.RLock()
	initialized := e.initialized
	dimension := e.dimension
	e.mu.RUnlock()
	if !initialized {
		return nil, Unavailable("Embed", e.model, fmt.Errorf("engine not warmed"))
	}

	vector, err := e.embedSingle(ctx, text)
	if err != nil {
		return nil, err
	}

	// The model behind the endpoint can change after warm-up; a vector
	// of the wrong length must never reach the index.
	if dimension != 0 && len(vector) != dimension {
		return nil, Unavailable("Embed", e.model,
			fmt.Errorf("model produced dimension %d, configured %d", len(vector), dimension))
	}

	return vector, nil
}

// Dimension returns the configured output vector length.
func (e *OllamaEngine) Dimension() int {
	return e.dimension
}

// Warm probes the endpoint once so model loading happens outside the
// request path. The probe also pins the vector dimension when the
// configuration left it unset.
func (e *OllamaEngine) Warm(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}

	vector, err := e.embedSingle(ctx, "warmup")
	if err != nil {
		return Unavailable("Warm", e.model, err)
	}

	if e.dimension == 0 {
		e.dimension = len(vector)
	} else if len(vector) != e.dimension {
		return Unavailable("Warm", e.model,
			fmt.Errorf("model produced dimension %d, configured %d", len(vector), e.dimension))
	}

	e.initialized = true
	return nil
}

// Close releases resources.
func (e *OllamaEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.initialized = false
	// HTTP client doesn't need explicit closing
	return nil
}

// embedSingle posts one prompt to the Ollama embeddings endpoint.
func (e *OllamaEngine) embedSingle(ctx context.Context, text string) ([]float32, error) {
	url := fmt.Sprintf("%s/api/embeddings", e.endpoint)

	payload, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, Unavailable("embedSingle", e.model, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, Unavailable("embedSingle", e.model, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, Unavailable("embedSingle", e.model, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, Unavailable("embedSingle", e.model,
			fmt.Errorf("ollama API status %d: %s", resp.StatusCode, string(body)))
	}

	var embedResp ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, Unavailable("embedSingle", e.model, fmt.Errorf("decode response: %w", err))
	}

	if len(embedResp.Embedding) == 0 {
		return nil, Unavailable("embedSingle", e.model, fmt.Errorf("model returned an empty embedding"))
	}

	return embedResp.Embedding, nil
}
