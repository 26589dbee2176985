package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imajayshakya/toolcat/api"
	"github.com/imajayshakya/toolcat/embedding"
	"github.com/imajayshakya/toolcat/store"
	"github.com/imajayshakya/toolcat/vectorindex"
)

// Config represents the complete toolcat configuration.
type Config struct {
	Server    ServerConfig       `yaml:"server" json:"server"`
	Store     store.Config       `yaml:"store" json:"store"`
	Index     vectorindex.Config `yaml:"index" json:"index"`
	Embedding embedding.Config   `yaml:"embedding" json:"embedding"`
}

// ServerConfig contains server-related configuration.
type ServerConfig struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// ToServerConfig converts to the api package's server configuration.
func (s ServerConfig) ToServerConfig() api.ServerConfig {
	return api.ServerConfig{
		Host:            s.Host,
		Port:            s.Port,
		ReadTimeout:     s.ReadTimeout,
		WriteTimeout:    s.WriteTimeout,
		IdleTimeout:     s.IdleTimeout,
		ShutdownTimeout: s.ShutdownTimeout,
	}
}

// DefaultConfig returns a configuration that runs with no external
// services: in-memory record store, flat index, static embedder.
func DefaultConfig() Config {
	serverDefaults := api.DefaultServerConfig()
	embeddingDefaults := embedding.DefaultConfig()

	return Config{
		Server: ServerConfig{
			Host:            serverDefaults.Host,
			Port:            serverDefaults.Port,
			ReadTimeout:     serverDefaults.ReadTimeout,
			WriteTimeout:    serverDefaults.WriteTimeout,
			IdleTimeout:     serverDefaults.IdleTimeout,
			ShutdownTimeout: serverDefaults.ShutdownTimeout,
		},
		Store:     store.DefaultConfig(),
		Index:     vectorindex.DefaultConfig(embeddingDefaults.Dimension),
		Embedding: embeddingDefaults,
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".toolcat.yml"
	}
	return filepath.Join(home, ".toolcat.yml")
}

// LoadConfig loads configuration from a YAML file, falling back to
// defaults when the path is empty or the default file is absent.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// The index must carry vectors the embedder actually produces.
	if cfg.Index.Dimension == 0 {
		cfg.Index.Dimension = cfg.Embedding.Dimension
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the assembled configuration.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	if c.Embedding.Dimension != 0 && c.Index.Dimension != c.Embedding.Dimension {
		return fmt.Errorf("index dimension %d does not match embedding dimension %d",
			c.Index.Dimension, c.Embedding.Dimension)
	}
	return nil
}
