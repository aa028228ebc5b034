package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"procqa/internal/domain"
)

// unknownSource buckets chunks whose payload carries no source file name.
const unknownSource = "Unknown"

// Statistician aggregates per-source chunk counts from the vector store.
type Statistician struct {
	store domain.Store
}

func NewStatistician(store domain.Store) *Statistician {
	return &Statistician{store: store}
}

// SourceCount is one source file's share of the collection.
type SourceCount struct {
	Source  string
	Count   int
	Percent float64
}

// Report describes the collection contents at a point in time.
type Report struct {
	TotalChunks int
	Sources     []SourceCount
}

// Collect scans the collection metadata and aggregates chunk counts per
// source, sorted by count descending with name as the tie break.
func (s *Statistician) Collect(ctx context.Context) (Report, error) {
	sources, err := s.store.Sources(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("scan collection: %w", err)
	}
	counts := make(map[string]int, len(sources))
	for _, src := range sources {
		if src == "" {
			src = unknownSource
		}
		counts[src]++
	}
	report := Report{TotalChunks: len(sources)}
	for src, n := range counts {
		report.Sources = append(report.Sources, SourceCount{
			Source:  src,
			Count:   n,
			Percent: float64(n) / float64(len(sources)) * 100,
		})
	}
	sort.Slice(report.Sources, func(i, j int) bool {
		if report.Sources[i].Count != report.Sources[j].Count {
			return report.Sources[i].Count > report.Sources[j].Count
		}
		return report.Sources[i].Source < report.Sources[j].Source
	})
	return report, nil
}

// Stats collects and renders the report in one step.
func (s *Statistician) Stats(ctx context.Context) (string, error) {
	report, err := s.Collect(ctx)
	if err != nil {
		return "", err
	}
	return s.Render(report), nil
}

// Render formats the report the way the interactive surface displays it.
func (s *Statistician) Render(report Report) string {
	if report.TotalChunks == 0 {
		return "No documents in the database."
	}
	var b strings.Builder
	b.WriteString("DOCUMENT STATISTICS\n\n")
	fmt.Fprintf(&b, "Total chunks: %d\n", report.TotalChunks)
	fmt.Fprintf(&b, "Source documents: %d\n\n", len(report.Sources))
	b.WriteString("Breakdown by document:\n")
	for _, sc := range report.Sources {
		fmt.Fprintf(&b, "• %s: %d chunks (%.1f%%)\n", sc.Source, sc.Count, sc.Percent)
	}
	return b.String()
}
