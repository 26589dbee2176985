package core

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 0},
		{"opposite", []float32{1, 0, 0}, []float32{-1, 0, 0}, -1},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tt.expected) {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	if _, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}); err == nil {
		t.Error("expected error for mismatched dimensions")
	}
}

func TestDotProduct(t *testing.T) {
	got, err := DotProduct([]float32{1, 2, 3}, []float32{4, 5, 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 32) {
		t.Errorf("expected 32, got %f", got)
	}
}

func TestSimilarityMetrics(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{1, 0}

	cosine, err := Similarity(a, b, MetricCosine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(cosine, 1) {
		t.Errorf("expected cosine 1, got %f", cosine)
	}

	dot, err := Similarity(a, b, MetricDot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(dot, 1) {
		t.Errorf("expected dot 1, got %f", dot)
	}

	if _, err := Similarity(a, b, DistanceMetric("l7")); err == nil {
		t.Error("expected error for unsupported metric")
	}
}

func TestValidateMetric(t *testing.T) {
	if err := ValidateMetric(MetricCosine); err != nil {
		t.Errorf("cosine should validate: %v", err)
	}
	if err := ValidateMetric(MetricDot); err != nil {
		t.Errorf("dot should validate: %v", err)
	}
	if err := ValidateMetric("euclidean-ish"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
