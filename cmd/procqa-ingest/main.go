package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"procqa/internal/chunker"
	"procqa/internal/config"
	"procqa/internal/converter"
	"procqa/internal/domain"
	embollama "procqa/internal/embedding/ollama"
	embopenai "procqa/internal/embedding/openai"
	"procqa/internal/logging"
	"procqa/internal/service"
	"procqa/internal/vectorstore/memory"
	"procqa/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/procqa/config.yaml if not provided)")
	var dir string
	flag.StringVar(&dir, "dir", "", "Documents directory (overrides docs.dir from the config)")
	var reset bool
	flag.BoolVar(&reset, "reset", false, "Drop the collection before ingesting")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logging.Setup(cfg.Log.Level, os.Stderr)

	if dir == "" {
		dir = cfg.Docs.Dir
	}

	// Assemble components
	emb, err := newEmbedder(cfg.Embedder)
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}
	store, err := newStore(cfg.VectorStore)
	if err != nil {
		log.Fatalf("vector store init failed: %v", err)
	}
	defer store.Close()
	log.WithFields(log.Fields{"embedder": emb.Name(), "store": cfg.VectorStore.Type}).Info("components assembled")

	ctx := context.Background()
	if reset {
		if err := store.Reset(ctx); err != nil {
			log.Fatalf("reset collection failed: %v", err)
		}
		log.Info("collection dropped")
	}

	ingestor := service.NewIngestor(
		converter.New(),
		chunker.NewHybridChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap),
		emb,
		store,
	)
	res, err := ingestor.Ingest(ctx, dir)
	if err != nil {
		if errors.Is(err, service.ErrNoChunks) {
			log.WithFields(log.Fields{"dir": dir, "skipped": res.Skipped, "failed": res.Failed}).Fatal(err)
		}
		log.Fatalf("ingestion failed: %v", err)
	}
	log.WithFields(log.Fields{
		"files":   res.Files,
		"skipped": res.Skipped,
		"failed":  res.Failed,
		"chunks":  res.Chunks,
	}).Info("ingestion complete")

	if count, err := store.Count(ctx); err == nil {
		fmt.Printf("Indexed %d chunks from %d files (collection now holds %d).\n", res.Chunks, res.Files, count)
	} else {
		fmt.Printf("Indexed %d chunks from %d files.\n", res.Chunks, res.Files)
	}
}

func newEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "ollama":
		return embollama.NewClient(embollama.Config{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.Model,
			Timeout: time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
		}), nil
	case "openai":
		return embopenai.NewClient(embopenai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.OpenAI.BatchSize,
		})
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Type)
	}
}

func newStore(cfg config.VectorStoreConfig) (domain.Store, error) {
	switch cfg.Type {
	case "memory":
		return memory.NewStorage(), nil
	case "qdrant":
		return qdrant.New(qdrant.Config{
			Host:       cfg.Qdrant.Host,
			Port:       cfg.Qdrant.Port,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown vector store type %q", cfg.Type)
	}
}
