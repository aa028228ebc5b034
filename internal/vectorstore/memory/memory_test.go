package memory

import (
	"context"
	"testing"

	"procqa/internal/domain"
)

func TestUpsertRequiresInit(t *testing.T) {
	s := NewStorage()
	err := s.Upsert(context.Background(), []domain.Chunk{{Text: "a"}}, [][]float32{{1, 0}})
	if err == nil {
		t.Fatal("expected error before Init")
	}
}

func TestInitRejectsInvalidDimension(t *testing.T) {
	s := NewStorage()
	if err := s.Init(context.Background(), 0); err == nil {
		t.Fatal("expected error for dimension 0")
	}
}

func TestUpsertDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.Init(ctx, 3); err != nil {
		t.Fatal(err)
	}
	err := s.Upsert(ctx, []domain.Chunk{{Text: "a"}}, [][]float32{{1, 0}})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestSearchRanksByCosine(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	chunks := []domain.Chunk{
		{Source: "a.pdf", Index: 0, Text: "east"},
		{Source: "a.pdf", Index: 1, Text: "north"},
		{Source: "b.pdf", Index: 0, Text: "northeast"},
	}
	vectors := [][]float32{
		{1, 0},
		{0, 1},
		{1, 1},
	}
	if err := s.Upsert(ctx, chunks, vectors); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.Text != "east" {
		t.Errorf("best match should be east, got %q", results[0].Chunk.Text)
	}
	if results[1].Chunk.Text != "northeast" {
		t.Errorf("second match should be northeast, got %q", results[1].Chunk.Text)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("scores not descending: %v then %v", results[0].Score, results[1].Score)
	}
}

func TestSearchTopKLargerThanStore(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, []domain.Chunk{{Text: "only"}}, [][]float32{{1, 1}}); err != nil {
		t.Fatal(err)
	}
	results, err := s.Search(ctx, []float32{1, 1}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestSearchEmptyStore(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	results, err := s.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestCountAndSources(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	chunks := []domain.Chunk{
		{Source: "policy.pdf", Index: 0, Text: "one"},
		{Source: "policy.pdf", Index: 1, Text: "two"},
		{Source: "guide.docx", Index: 0, Text: "three"},
	}
	vectors := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	if err := s.Upsert(ctx, chunks, vectors); err != nil {
		t.Fatal(err)
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected count 3, got %d", n)
	}
	sources, err := s.Sources(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"policy.pdf", "policy.pdf", "guide.docx"}
	if len(sources) != len(want) {
		t.Fatalf("expected %d sources, got %d", len(want), len(sources))
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("source %d: expected %q, got %q", i, want[i], sources[i])
		}
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, []domain.Chunk{{Text: "x"}}, [][]float32{{1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected empty store after reset, got %d", n)
	}
}
