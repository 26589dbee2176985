package embedding

import (
	"fmt"

	"github.com/imajayshakya/toolcat/core"
)

// Engine type identifiers.
const (
	EngineStatic = "static"
	EngineOllama = "ollama"
)

// DefaultDimension matches the all-MiniLM family the service was
// originally tuned for.
const DefaultDimension = 384

// Config selects and configures an embedding engine.
type Config struct {
	// Engine type: "static" or "ollama".
	Engine string `yaml:"engine" json:"engine"`

	// Model name, used by the Ollama engine.
	Model string `yaml:"model" json:"model"`

	// Endpoint of the Ollama daemon.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Dimension of produced vectors. Zero lets the Ollama engine pin
	// it during warm-up.
	Dimension int `yaml:"dimension" json:"dimension"`
}

// DefaultConfig returns the offline static engine configuration.
func DefaultConfig() Config {
	return Config{
		Engine:    EngineStatic,
		Dimension: DefaultDimension,
	}
}

// NewEngine creates an embedding engine from configuration.
func NewEngine(cfg Config) (core.Embedder, error) {
	switch cfg.Engine {
	case EngineStatic, "":
		dimension := cfg.Dimension
		if dimension <= 0 {
			dimension = DefaultDimension
		}
		return NewStaticEngine(dimension), nil
	case EngineOllama:
		return NewOllamaEngine(cfg.Endpoint, cfg.Model, cfg.Dimension)
	default:
		return nil, fmt.Errorf("unsupported embedding engine type: %q", cfg.Engine)
	}
}
