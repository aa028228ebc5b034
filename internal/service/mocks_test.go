package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"procqa/internal/domain"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	texts  []string
}

func (f *fakeEmbedder) Name() string { return "fake-embedder" }

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.texts = append(f.texts, text)
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Name() string { return "fake-generator" }

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// failingStore wraps a real store and injects errors into selected calls.
type failingStore struct {
	domain.Store
	searchErr  error
	sourcesErr error
	failOn     int // 1-based Search call number to fail on; 0 fails every call
	calls      int
}

func (f *failingStore) Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	f.calls++
	if f.searchErr != nil && (f.failOn == 0 || f.calls == f.failOn) {
		return nil, f.searchErr
	}
	return f.Store.Search(ctx, vector, topK)
}

func (f *failingStore) Sources(ctx context.Context) ([]string, error) {
	if f.sourcesErr != nil {
		return nil, f.sourcesErr
	}
	return f.Store.Sources(ctx)
}

// fakeConverter serves canned document content keyed by base file name.
type fakeConverter struct {
	docs map[string]string
	fail map[string]bool
}

func (f *fakeConverter) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx":
		return true
	}
	return false
}

func (f *fakeConverter) Convert(path string) (domain.Document, error) {
	name := filepath.Base(path)
	if f.fail[name] {
		return domain.Document{}, errors.New("conversion blew up")
	}
	return domain.Document{Path: path, Name: name, Content: f.docs[name]}, nil
}
