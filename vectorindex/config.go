package vectorindex

import (
	"fmt"

	"github.com/imajayshakya/toolcat/core"
)

// Type identifies a vector index backend.
type Type string

const (
	TypeFlat   Type = "flat"
	TypeBadger Type = "badger"
)

// Config selects and configures a vector index backend.
type Config struct {
	Type      Type                `yaml:"type" json:"type"`
	Path      string              `yaml:"path" json:"path"`
	Dimension int                 `yaml:"dimension" json:"dimension"`
	Metric    core.DistanceMetric `yaml:"metric" json:"metric"`
}

// DefaultConfig returns an in-memory flat index configuration.
func DefaultConfig(dimension int) Config {
	return Config{
		Type:      TypeFlat,
		Dimension: dimension,
		Metric:    core.MetricCosine,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Dimension <= 0 {
		return fmt.Errorf("vector index dimension must be positive, got %d", c.Dimension)
	}
	if err := core.ValidateMetric(c.Metric); err != nil {
		return err
	}
	switch c.Type {
	case TypeFlat:
		return nil
	case TypeBadger:
		if c.Path == "" {
			return fmt.Errorf("badger vector index requires a path")
		}
		return nil
	default:
		return fmt.Errorf("unsupported vector index type: %s", c.Type)
	}
}

// Open creates a vector index from configuration.
func Open(cfg Config) (core.VectorIndex, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vector index configuration: %w", err)
	}

	switch cfg.Type {
	case TypeFlat:
		return NewFlatIndex(cfg.Dimension, cfg.Metric), nil
	case TypeBadger:
		return NewBadgerIndex(cfg.Path, cfg.Dimension, cfg.Metric)
	default:
		return nil, fmt.Errorf("unsupported vector index type: %s", cfg.Type)
	}
}
