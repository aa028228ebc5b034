package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procqa/internal/chunker"
	"procqa/internal/vectorstore/memory"
)

// touch creates an empty placeholder file; the fake converter supplies the
// content, the directory scan only needs the name to exist.
func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("placeholder"), 0o644))
}

func TestIngestChunksAndIndexesDocument(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "policy.pdf")

	converter := &fakeConverter{docs: map[string]string{
		"policy.pdf": "aaaaaa\n\nbbbbbb\n\ncccccc",
	}}
	store := memory.NewStorage()
	ingestor := NewIngestor(converter, chunker.NewHybridChunker(10, 0),
		&fakeEmbedder{vector: []float32{0.1, 0.9}}, store)

	res, err := ingestor.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, IngestResult{Files: 1, Chunks: 3}, res)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	stats, err := NewStatistician(store).Stats(context.Background())
	require.NoError(t, err)
	assert.Contains(t, stats, "Total chunks: 3")
	assert.Contains(t, stats, "policy.pdf: 3 chunks (100.0%)")
}

func TestIngestSkipsAndCountsFailures(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "good.pdf")
	touch(t, dir, "notes.txt")
	touch(t, dir, "bad.pdf")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	converter := &fakeConverter{
		docs: map[string]string{"good.pdf": "The first rule. The second rule."},
		fail: map[string]bool{"bad.pdf": true},
	}
	store := memory.NewStorage()
	ingestor := NewIngestor(converter, chunker.NewHybridChunker(100, 0),
		&fakeEmbedder{vector: []float32{0.1, 0.9}}, store)

	res, err := ingestor.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, IngestResult{Files: 1, Skipped: 1, Failed: 1, Chunks: 1}, res)

	sources, err := store.Sources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"good.pdf"}, sources)
}

func TestIngestEmptyDirectory(t *testing.T) {
	ingestor := NewIngestor(&fakeConverter{}, chunker.NewHybridChunker(100, 0),
		&fakeEmbedder{vector: []float32{1}}, memory.NewStorage())

	res, err := ingestor.Ingest(context.Background(), t.TempDir())
	require.ErrorIs(t, err, ErrNoChunks)
	assert.Equal(t, IngestResult{}, res)
}

func TestIngestOnlyUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.txt")

	ingestor := NewIngestor(&fakeConverter{}, chunker.NewHybridChunker(100, 0),
		&fakeEmbedder{vector: []float32{1}}, memory.NewStorage())

	res, err := ingestor.Ingest(context.Background(), dir)
	require.ErrorIs(t, err, ErrNoChunks)
	assert.Equal(t, IngestResult{Skipped: 1}, res)
}

func TestIngestMissingDirectory(t *testing.T) {
	ingestor := NewIngestor(&fakeConverter{}, chunker.NewHybridChunker(100, 0),
		&fakeEmbedder{vector: []float32{1}}, memory.NewStorage())

	_, err := ingestor.Ingest(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoChunks)
	assert.Contains(t, err.Error(), "read documents directory")
}

func TestIngestEmbedFailure(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "policy.pdf")

	converter := &fakeConverter{docs: map[string]string{"policy.pdf": "One short paragraph."}}
	store := memory.NewStorage()
	ingestor := NewIngestor(converter, chunker.NewHybridChunker(100, 0),
		&fakeEmbedder{err: errors.New("embedder offline")}, store)

	_, err := ingestor.Ingest(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed chunks")

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}
