package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imajayshakya/toolcat/api"
	"github.com/imajayshakya/toolcat/config"
	"github.com/imajayshakya/toolcat/core"
	"github.com/imajayshakya/toolcat/embedding"
	"github.com/imajayshakya/toolcat/store"
	"github.com/imajayshakya/toolcat/vectorindex"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file (default: ~/.toolcat.yml)")
		host       = flag.String("host", "", "Host to listen on (overrides config)")
		port       = flag.Int("port", 0, "Port to listen on (overrides config)")
		storeType  = flag.String("store", "", "Record store type: memory, bolt (overrides config)")
		storePath  = flag.String("store-path", "", "Record store path (overrides config)")
		indexType  = flag.String("index", "", "Vector index type: flat, badger (overrides config)")
		indexPath  = flag.String("index-path", "", "Vector index path (overrides config)")
		engine     = flag.String("engine", "", "Embedding engine: static, ollama (overrides config)")
		model      = flag.String("model", "", "Embedding model name (overrides config)")
		endpoint   = flag.String("endpoint", "", "Ollama endpoint (overrides config)")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *storeType != "" {
		cfg.Store.Type = store.Type(*storeType)
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}
	if *indexType != "" {
		cfg.Index.Type = vectorindex.Type(*indexType)
	}
	if *indexPath != "" {
		cfg.Index.Path = *indexPath
	}
	if *engine != "" {
		cfg.Embedding.Engine = *engine
	}
	if *model != "" {
		cfg.Embedding.Model = *model
	}
	if *endpoint != "" {
		cfg.Embedding.Endpoint = *endpoint
	}

	log.Printf("toolcat: store=%s index=%s engine=%s listening on %s:%d",
		cfg.Store.Type, cfg.Index.Type, cfg.Embedding.Engine, cfg.Server.Host, cfg.Server.Port)

	recordStore, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer recordStore.Close()

	embedder, err := embedding.NewEngine(cfg.Embedding)
	if err != nil {
		log.Fatalf("Failed to create embedding engine: %v", err)
	}
	defer embedder.Close()

	warmCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := embedder.Warm(warmCtx); err != nil {
		cancel()
		log.Fatalf("Failed to warm embedding engine: %v", err)
	}
	cancel()

	// The Ollama engine pins its dimension during warm-up; the index
	// has to agree with whatever the model actually produces.
	if cfg.Index.Dimension != embedder.Dimension() {
		cfg.Index.Dimension = embedder.Dimension()
	}

	index, err := vectorindex.Open(cfg.Index)
	if err != nil {
		log.Fatalf("Failed to open vector index: %v", err)
	}
	defer index.Close()

	coordinator := core.NewCoordinator(recordStore, index, embedder)
	pipeline := core.NewPipeline(recordStore, index, embedder)

	server := api.NewServer(coordinator, pipeline, cfg.Server.ToServerConfig())

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
