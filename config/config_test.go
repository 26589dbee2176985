package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imajayshakya/toolcat/embedding"
	"github.com/imajayshakya/toolcat/store"
	"github.com/imajayshakya/toolcat/vectorindex"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, store.TypeMemory, cfg.Store.Type)
	assert.Equal(t, vectorindex.TypeFlat, cfg.Index.Type)
	assert.Equal(t, embedding.EngineStatic, cfg.Embedding.Engine)
	assert.Equal(t, embedding.DefaultDimension, cfg.Index.Dimension)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolcat.yml")
	data := `
server:
  host: 127.0.0.1
  port: 9090
store:
  type: bolt
  path: /tmp/toolcat/records.db
index:
  type: badger
  path: /tmp/toolcat/vectors
  metric: dot
  dimension: 768
embedding:
  engine: ollama
  model: nomic-embed-text
  endpoint: http://localhost:11434
  dimension: 768
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, store.TypeBolt, cfg.Store.Type)
	assert.Equal(t, vectorindex.TypeBadger, cfg.Index.Type)
	assert.Equal(t, 768, cfg.Index.Dimension)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateRejectsMismatchedDimensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Index.Dimension = 128
	cfg.Embedding.Dimension = 384

	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}
