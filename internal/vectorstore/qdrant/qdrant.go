package qdrant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"procqa/internal/domain"
)

const scrollPageSize = 256

// Store keeps embedded chunks in a Qdrant collection over gRPC.
type Store struct {
	client     *qdrant.Client
	collection string
}

// Config contains connection details for a Qdrant vector store.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	Collection string
}

// New connects to Qdrant and binds the store to the configured collection.
func New(cfg Config) (*Store, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("connect qdrant: %w", err)
	}
	return &Store{
		client:     client,
		collection: cfg.Collection,
	}, nil
}

// Init creates the collection if it does not exist yet.
func (s *Store) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	}); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// Upsert writes chunks and their vectors as new points with UUID ids.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, ch := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.New().String()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":   ch.Text,
				"source": ch.Source,
				"index":  int64(ch.Index),
			}),
		}
	}
	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// Search returns the topK most similar chunks for the query vector.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	limit := uint64(topK)
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Limit:          &limit,
		Query:          qdrant.NewQuery(vector...),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	results := make([]domain.SearchResult, 0, len(resp))
	for _, p := range resp {
		results = append(results, domain.SearchResult{
			Chunk: chunkFromPayload(p.Payload),
			Score: p.Score,
		})
	}
	return results, nil
}

// Count returns the exact number of points in the collection.
func (s *Store) Count(ctx context.Context) (uint64, error) {
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return n, nil
}

// Sources scans every point payload and returns each chunk's source, empty
// string where the payload has none. The raw points client is used because
// the wrapper's Scroll loses the pagination cursor.
func (s *Store) Sources(ctx context.Context) ([]string, error) {
	var out []string
	var offset *qdrant.PointId
	limit := uint32(scrollPageSize)
	for {
		resp, err := s.client.GetPointsClient().Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: s.collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, fmt.Errorf("scroll points: %w", err)
		}
		for _, p := range resp.GetResult() {
			var source string
			if v, ok := p.Payload["source"]; ok {
				source = v.GetStringValue()
			}
			out = append(out, source)
		}
		offset = resp.GetNextPageOffset()
		if offset == nil {
			return out, nil
		}
	}
}

// Reset drops the collection. Init must run again before the next Upsert.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func chunkFromPayload(payload map[string]*qdrant.Value) domain.Chunk {
	var ch domain.Chunk
	if v, ok := payload["text"]; ok {
		ch.Text = v.GetStringValue()
	}
	if v, ok := payload["source"]; ok {
		ch.Source = v.GetStringValue()
	}
	if v, ok := payload["index"]; ok {
		ch.Index = int(v.GetIntegerValue())
	}
	return ch
}
