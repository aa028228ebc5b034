package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"procqa/internal/domain"
)

// ErrNoChunks is returned when a full scan of the documents directory
// produced nothing to index. This is a fatal precondition for ingestion,
// not a retryable error.
var ErrNoChunks = errors.New("no chunks were produced: the documents directory may be empty, the documents may be unsupported or empty, or conversion may have failed")

// Ingestor walks a documents directory and indexes every supported file
// into the vector store.
type Ingestor struct {
	converter domain.Converter
	chunker   domain.Chunker
	embedder  domain.Embedder
	store     domain.Store
}

func NewIngestor(converter domain.Converter, chunker domain.Chunker, embedder domain.Embedder, store domain.Store) *Ingestor {
	return &Ingestor{
		converter: converter,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
	}
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Files   int // documents successfully converted and chunked
	Skipped int // entries with unsupported extensions
	Failed  int // documents whose conversion or chunking failed
	Chunks  int // chunks written to the store
}

// Ingest scans dir non-recursively, converts and chunks every supported
// document, then embeds and writes all chunks in one bulk upsert. Per-file
// failures are logged and skipped; ErrNoChunks is returned when the whole
// scan yielded nothing.
func (ing *Ingestor) Ingest(ctx context.Context, dir string) (IngestResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return IngestResult{}, fmt.Errorf("read documents directory: %w", err)
	}

	var res IngestResult
	var chunks []domain.Chunk
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !ing.converter.Supports(path) {
			res.Skipped++
			continue
		}
		doc, err := ing.converter.Convert(path)
		if err != nil {
			log.WithError(err).WithField("file", entry.Name()).Error("conversion failed, skipping file")
			res.Failed++
			continue
		}
		docChunks, err := ing.chunker.Chunk(doc)
		if err != nil {
			log.WithError(err).WithField("file", entry.Name()).Error("chunking failed, skipping file")
			res.Failed++
			continue
		}
		log.WithFields(log.Fields{"file": doc.Name, "chunks": len(docChunks)}).Info("document processed")
		res.Files++
		chunks = append(chunks, docChunks...)
	}
	if len(chunks) == 0 {
		return res, ErrNoChunks
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := ing.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return res, fmt.Errorf("embed chunks: %w", err)
	}
	if err := ing.store.Init(ctx, len(vectors[0])); err != nil {
		return res, fmt.Errorf("prepare collection: %w", err)
	}
	if err := ing.store.Upsert(ctx, chunks, vectors); err != nil {
		return res, fmt.Errorf("index chunks: %w", err)
	}
	res.Chunks = len(chunks)
	return res, nil
}
