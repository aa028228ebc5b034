package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DocsConfig locates the directory scanned for procedure documents.
type DocsConfig struct {
	Dir string `yaml:"dir"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// OllamaConfig holds connection details for a local Ollama server.
type OllamaConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// OpenAIConfig holds configuration for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	BatchSize   int     `yaml:"batch_size,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	Temperature float32 `yaml:"temperature,omitempty"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string        `yaml:"type"`
	Ollama *OllamaConfig `yaml:"ollama,omitempty"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// LLMConfig selects and configures the answer-generating model.
type LLMConfig struct {
	Type   string        `yaml:"type"`
	Ollama *OllamaConfig `yaml:"ollama,omitempty"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	APIKey     string `yaml:"api_key,omitempty"`
	Collection string `yaml:"collection"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// ChatConfig tunes the interactive question answering loop. TimeoutSecs
// bounds one full answer round trip (embed, search, generate).
type ChatConfig struct {
	TopK          int `yaml:"top_k"`
	HistoryWindow int `yaml:"history_window"`
	TimeoutSecs   int `yaml:"timeout_secs"`
}

// ExportConfig controls where and how conversations are exported.
// Format is one of "auto", "pdf" or "text"; "auto" probes for a PDF
// renderer at startup and falls back to plain text.
type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// LogConfig controls application logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Docs        DocsConfig        `yaml:"docs"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	LLM         LLMConfig         `yaml:"llm"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Chat        ChatConfig        `yaml:"chat"`
	Export      ExportConfig      `yaml:"export"`
	Log         LogConfig         `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/procqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/procqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects configurations the component constructors cannot satisfy.
func (cfg *AppConfig) Validate() error {
	switch cfg.Embedder.Type {
	case "ollama", "openai":
	default:
		return fmt.Errorf("config: unknown embedder type %q", cfg.Embedder.Type)
	}
	switch cfg.LLM.Type {
	case "ollama", "openai":
	default:
		return fmt.Errorf("config: unknown llm type %q", cfg.LLM.Type)
	}
	switch cfg.VectorStore.Type {
	case "qdrant", "memory":
	default:
		return fmt.Errorf("config: unknown vector store type %q", cfg.VectorStore.Type)
	}
	switch cfg.Export.Format {
	case "auto", "pdf", "text":
	default:
		return fmt.Errorf("config: unknown export format %q", cfg.Export.Format)
	}
	if cfg.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", cfg.Chunker.ChunkSize)
	}
	if cfg.Chunker.Overlap < 0 || cfg.Chunker.Overlap >= cfg.Chunker.ChunkSize {
		return fmt.Errorf("config: overlap must be in [0, chunk_size), got %d", cfg.Chunker.Overlap)
	}
	if cfg.Chat.TopK <= 0 {
		return fmt.Errorf("config: top_k must be positive, got %d", cfg.Chat.TopK)
	}
	if cfg.Chat.HistoryWindow < 0 {
		return fmt.Errorf("config: history_window must not be negative, got %d", cfg.Chat.HistoryWindow)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "procqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Docs:    DocsConfig{Dir: "docs-procedure"},
		Chunker: ChunkerConfig{ChunkSize: 1000, Overlap: 100},
		Embedder: EmbedderConfig{
			Type:   "ollama",
			Ollama: &OllamaConfig{BaseURL: "http://localhost:11434", Model: "mxbai-embed-large", TimeoutSecs: 60},
		},
		LLM: LLMConfig{
			Type:   "ollama",
			Ollama: &OllamaConfig{BaseURL: "http://localhost:11434", Model: "mistral", TimeoutSecs: 120},
		},
		VectorStore: VectorStoreConfig{
			Type:   "qdrant",
			Qdrant: &QdrantConfig{Host: "localhost", Port: 6334, Collection: "documents"},
		},
		Chat:   ChatConfig{TopK: 5, HistoryWindow: 4, TimeoutSecs: 120},
		Export: ExportConfig{Dir: "exports", Format: "auto"},
		Log:    LogConfig{Level: "info"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Docs.Dir == "" {
		cfg.Docs.Dir = "docs-procedure"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
		if cfg.Chunker.Overlap == 0 {
			cfg.Chunker.Overlap = 100
		}
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "ollama"
	}
	if cfg.LLM.Type == "" {
		cfg.LLM.Type = "ollama"
	}
	if cfg.Embedder.Type == "ollama" {
		if cfg.Embedder.Ollama == nil {
			cfg.Embedder.Ollama = &OllamaConfig{}
		}
		applyOllamaDefaults(cfg.Embedder.Ollama, "mxbai-embed-large", 60)
	}
	if cfg.LLM.Type == "ollama" {
		if cfg.LLM.Ollama == nil {
			cfg.LLM.Ollama = &OllamaConfig{}
		}
		applyOllamaDefaults(cfg.LLM.Ollama, "mistral", 120)
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIConfig{}
		}
		applyOpenAIDefaults(cfg.Embedder.OpenAI, "text-embedding-3-small")
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
	if cfg.LLM.Type == "openai" {
		if cfg.LLM.OpenAI == nil {
			cfg.LLM.OpenAI = &OpenAIConfig{}
		}
		applyOpenAIDefaults(cfg.LLM.OpenAI, "gpt-4o-mini")
		if cfg.LLM.OpenAI.MaxTokens == 0 {
			cfg.LLM.OpenAI.MaxTokens = 1024
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "qdrant"
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		if cfg.VectorStore.Qdrant.Host == "" {
			cfg.VectorStore.Qdrant.Host = "localhost"
		}
		if cfg.VectorStore.Qdrant.Port == 0 {
			cfg.VectorStore.Qdrant.Port = 6334
		}
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "documents"
		}
	}
	if cfg.Chat.TopK == 0 {
		cfg.Chat.TopK = 5
	}
	if cfg.Chat.HistoryWindow == 0 {
		cfg.Chat.HistoryWindow = 4
	}
	if cfg.Chat.TimeoutSecs == 0 {
		cfg.Chat.TimeoutSecs = 120
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "exports"
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = "auto"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func applyOllamaDefaults(c *OllamaConfig, model string, timeoutSecs int) {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = timeoutSecs
	}
}

func applyOpenAIDefaults(c *OpenAIConfig, model string) {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = 30
	}
}
