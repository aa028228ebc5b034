package domain

import "context"

// Document represents a single procedure file loaded into the system.
type Document struct {
	Path    string
	Name    string
	Content string
}

// Chunk is a semantically meaningful part of a document used for indexing.
// Source is the base name of the originating file and travels with the
// chunk into the vector store payload.
type Chunk struct {
	Source string
	Index  int
	Text   string
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// Conversation roles as stored in the log and rendered in prompts.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one utterance in the conversation log.
type Turn struct {
	Role    string
	Content string
}

// Converter extracts plain text from a document file on disk.
type Converter interface {
	Supports(path string) bool
	Convert(path string) (Document, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a completion for a fully rendered prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Store persists embedded chunks and supports similarity search.
type Store interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	Count(ctx context.Context) (uint64, error)
	Sources(ctx context.Context) ([]string, error)
	Reset(ctx context.Context) error
	Close() error
}
