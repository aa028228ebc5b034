package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"procqa/internal/domain"
	"procqa/internal/history"
)

// Answerer runs the retrieval-augmented answer flow for one question at a
// time. The conversation transcript is injected so that the exporter and
// the interactive surface share it.
type Answerer struct {
	embedder   domain.Embedder
	store      domain.Store
	model      domain.Generator
	transcript *history.Log
	topK       int
	window     int
}

func NewAnswerer(embedder domain.Embedder, store domain.Store, model domain.Generator, transcript *history.Log, topK, historyWindow int) *Answerer {
	if topK <= 0 {
		topK = 5
	}
	if historyWindow < 0 {
		historyWindow = 0
	}
	return &Answerer{
		embedder:   embedder,
		store:      store,
		model:      model,
		transcript: transcript,
		topK:       topK,
		window:     historyWindow,
	}
}

// Answer embeds the question, retrieves the topK nearest chunks, fills the
// prompt template with context and recent history, generates a completion
// and appends a deduplicated source listing from an independent second
// retrieval. The transcript is appended only after every step succeeded, so
// a failed turn leaves it untouched.
func (a *Answerer) Answer(ctx context.Context, question string) (string, error) {
	vector, err := a.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}
	results, err := a.store.Search(ctx, vector, a.topK)
	if err != nil {
		return "", fmt.Errorf("search collection: %w", err)
	}
	prompt := buildPrompt(formatContext(results), formatHistory(a.transcript.Window(a.window)), question)
	answer, err := a.model.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	// Independent retrieval for the source listing.
	sourceResults, err := a.store.Search(ctx, vector, a.topK)
	if err != nil {
		return "", fmt.Errorf("look up sources: %w", err)
	}

	a.transcript.Append(domain.RoleUser, question)
	a.transcript.Append(domain.RoleAssistant, answer)
	log.WithFields(log.Fields{"retrieved": len(results), "sources": len(sourceResults)}).Debug("question answered")

	return renderAnswer(answer, dedupeSources(sourceResults)), nil
}

// dedupeSources returns the distinct chunk sources in first-seen order,
// mapping missing metadata to "Unknown".
func dedupeSources(results []domain.SearchResult) []string {
	seen := make(map[string]struct{}, len(results))
	var sources []string
	for _, r := range results {
		source := r.Chunk.Source
		if source == "" {
			source = unknownSource
		}
		if _, ok := seen[source]; ok {
			continue
		}
		seen[source] = struct{}{}
		sources = append(sources, source)
	}
	return sources
}

func renderAnswer(answer string, sources []string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(answer))
	b.WriteString("\n\n---\n\nSources used:\n")
	for _, s := range sources {
		b.WriteString("• ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}
