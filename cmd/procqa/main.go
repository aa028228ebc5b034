package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"procqa/internal/chunker"
	"procqa/internal/config"
	"procqa/internal/converter"
	"procqa/internal/domain"
	embollama "procqa/internal/embedding/ollama"
	embopenai "procqa/internal/embedding/openai"
	"procqa/internal/export"
	"procqa/internal/history"
	llmollama "procqa/internal/llm/ollama"
	llmopenai "procqa/internal/llm/openai"
	"procqa/internal/logging"
	"procqa/internal/service"
	"procqa/internal/tui"
	"procqa/internal/vectorstore/memory"
	"procqa/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/procqa/config.yaml if not provided)")
	var logPath string
	flag.StringVar(&logPath, "log", "", "Write logs to this file (default: discard; the TUI owns the terminal)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		fail("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}

	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := logging.FileOutput(logPath)
		if err != nil {
			fail("failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logging.Setup(cfg.Log.Level, logOut)

	// Assemble components
	emb, err := newEmbedder(cfg.Embedder)
	if err != nil {
		fail("embedder init failed: %v", err)
	}
	gen, err := newGenerator(cfg.LLM)
	if err != nil {
		fail("llm init failed: %v", err)
	}
	store, err := newStore(cfg.VectorStore)
	if err != nil {
		fail("vector store init failed: %v", err)
	}
	defer store.Close()
	log.WithFields(log.Fields{"embedder": emb.Name(), "llm": gen.Name(), "store": cfg.VectorStore.Type}).Info("components assembled")

	// The in-process store starts empty, so index the documents now. A bare
	// documents directory is tolerated here; the intro line reports it.
	if cfg.VectorStore.Type == "memory" {
		ingestor := service.NewIngestor(
			converter.New(),
			chunker.NewHybridChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap),
			emb,
			store,
		)
		if _, err := ingestor.Ingest(context.Background(), cfg.Docs.Dir); err != nil && !errors.Is(err, service.ErrNoChunks) {
			fail("ingest failed: %v", err)
		}
	}

	transcript := history.New()
	answerer := service.NewAnswerer(emb, store, gen, transcript, cfg.Chat.TopK, cfg.Chat.HistoryWindow)
	reporter := service.NewStatistician(store)
	exporter := export.New(cfg.Export.Dir, export.RendererFor(cfg.Export.Format), transcript)

	intro := collectionIntro(store)
	timeout := time.Duration(cfg.Chat.TimeoutSecs) * time.Second

	m := tui.New(answerer, reporter, exporter, transcript, timeout, intro)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fail("%v", err)
	}
}

// collectionIntro probes the store once so the first screen can tell an
// empty collection from an unreachable one.
func collectionIntro(store domain.Store) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := store.Count(ctx)
	switch {
	case err != nil:
		return "Warning: vector store unreachable. Check your config."
	case count == 0:
		return "The collection is empty. Run procqa-ingest first."
	default:
		return fmt.Sprintf("%d chunks indexed. Type a question.", count)
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

func newGenerator(cfg config.LLMConfig) (domain.Generator, error) {
	switch cfg.Type {
	case "ollama":
		return llmollama.NewClient(llmollama.Config{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.Model,
			Timeout: time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
		}), nil
	case "openai":
		return llmopenai.NewClient(llmopenai.Config{
			BaseURL:     cfg.OpenAI.BaseURL,
			APIKeyEnv:   cfg.OpenAI.APIKeyEnv,
			Model:       cfg.OpenAI.Model,
			Timeout:     time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown llm type %q", cfg.Type)
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

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
