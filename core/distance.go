package core

import (
	"fmt"
	"math"
)

// DistanceMetric represents supported similarity calculation methods.
// The metric is fixed per deployment.
type DistanceMetric string

const (
	MetricCosine DistanceMetric = "cosine"
	MetricDot    DistanceMetric = "dot"
)

// CosineSimilarity calculates cosine similarity between two vectors.
// Returns similarity score (higher = more similar).
func CosineSimilarity(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions must match: %d != %d", len(a), len(b))
	}

	var dotProduct, normA, normB float32
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))), nil
}

// DotProduct calculates dot product between two vectors.
func DotProduct(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions must match: %d != %d", len(a), len(b))
	}

	var product float32
	for i := range a {
		product += a[i] * b[i]
	}

	return product, nil
}

// Similarity scores two vectors under the given metric. Higher scores
// rank earlier in search results.
func Similarity(a, b []float32, metric DistanceMetric) (float32, error) {
	switch metric {
	case MetricCosine:
		return CosineSimilarity(a, b)
	case MetricDot:
		return DotProduct(a, b)
	default:
		return 0, fmt.Errorf("unsupported distance metric: %s", metric)
	}
}

// ValidateMetric checks that the configured metric is supported.
func ValidateMetric(metric DistanceMetric) error {
	switch metric {
	case MetricCosine, MetricDot:
		return nil
	default:
		return fmt.Errorf("unsupported distance metric: %s", metric)
	}
}
