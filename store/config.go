package store

import (
	"fmt"

	"github.com/imajayshakya/toolcat/core"
)

// Type identifies a record store backend.
type Type string

const (
	TypeMemory Type = "memory"
	TypeBolt   Type = "bolt"
)

// Config selects and configures a record store backend.
type Config struct {
	Type Type   `yaml:"type" json:"type"`
	Path string `yaml:"path" json:"path"`
}

// DefaultConfig returns an ephemeral in-memory configuration.
func DefaultConfig() Config {
	return Config{Type: TypeMemory}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Type {
	case TypeMemory:
		return nil
	case TypeBolt:
		if c.Path == "" {
			return fmt.Errorf("bolt record store requires a path")
		}
		return nil
	default:
		return fmt.Errorf("unsupported record store type: %s", c.Type)
	}
}

// Open creates a record store from configuration.
func Open(cfg Config) (core.ToolStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid record store configuration: %w", err)
	}

	switch cfg.Type {
	case TypeMemory:
		return NewMemoryStore(), nil
	case TypeBolt:
		return NewBoltStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported record store type: %s", cfg.Type)
	}
}
