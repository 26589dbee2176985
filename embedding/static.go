package embedding

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const staticModelName = "static-feature-hash"

// StaticEngine produces deterministic embeddings by feature-hashing
// query tokens into a fixed-dimension vector. It needs no external
// model service, which makes it the offline default and the engine the
// tests run against. Vectors are L2-normalized so cosine and dot
// rankings agree.
//
// Rankings reflect token overlap rather than learned semantics; swap
// in the Ollama engine for neural embeddings.
type StaticEngine struct {
	dimension int
}

// NewStaticEngine creates a static embedding engine.
func NewStaticEngine(dimension int) *StaticEngine {
	return &StaticEngine{dimension: dimension}
}

// Embed converts text into a deterministic feature-hashed vector.
func (e *StaticEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, Unavailable("Embed", staticModelName, errors.New("input empty after normalization"))
	}

	vector := make([]float32, e.dimension)
	for _, token := range tokens {
		h := fnv.New32a()
		h.Write([]byte(token))
		sum := h.Sum32()

		// Top bit picks the sign so hash collisions partially cancel
		// instead of always accumulating.
		weight := float32(1)
		if sum&0x80000000 != 0 {
			weight = -1
		}
		vector[sum%uint32(e.dimension)] += weight
	}

	return normalize(vector), nil
}

// Dimension returns the output vector length.
func (e *StaticEngine) Dimension() int {
	return e.dimension
}

// Warm is a no-op; the engine has no model to load.
func (e *StaticEngine) Warm(ctx context.Context) error {
	return nil
}

// Close releases nothing.
func (e *StaticEngine) Close() error {
	return nil
}

// tokenize lowercases the text and splits it on non-alphanumeric runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalize scales a vector to unit length.
func normalize(v []float32) []float32 {
	var sum float32
	for _, val := range v {
		sum += val * val
	}
	if sum == 0 {
		return v
	}

	norm := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= norm
	}
	return v
}
