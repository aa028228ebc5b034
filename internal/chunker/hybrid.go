package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"procqa/internal/domain"
)

var paragraphSplitter = regexp.MustCompile(`\n[ \t]*\n`)

// HybridChunker packs whole paragraphs into a rune limit and falls back to
// sentence packing for paragraphs that alone exceed it. Consecutive chunks
// share an overlap tail so that retrieval does not lose statements cut at a
// chunk boundary.
type HybridChunker struct {
	chunkSize int
	overlap   int
	splitter  *regexp.Regexp
}

func NewHybridChunker(chunkSize, overlap int) *HybridChunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &HybridChunker{
		chunkSize: chunkSize,
		overlap:   overlap,
		splitter:  regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

func (c *HybridChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	paragraphs := splitParagraphs(document.Content)
	if len(paragraphs) == 0 {
		return nil, nil
	}

	var texts []string
	current := ""
	for _, p := range paragraphs {
		if utf8.RuneCountInString(p) > c.chunkSize {
			if current != "" {
				texts = append(texts, current)
				current = ""
			}
			texts = append(texts, c.packSentences(p)...)
			continue
		}
		candidate := p
		if current != "" {
			candidate = current + "\n\n" + p
		}
		if utf8.RuneCountInString(candidate) <= c.chunkSize {
			current = candidate
			continue
		}
		texts = append(texts, current)
		current = p
		if c.overlap > 0 {
			seeded := runeTail(texts[len(texts)-1], c.overlap) + "\n\n" + p
			if utf8.RuneCountInString(seeded) <= c.chunkSize {
				current = seeded
			}
		}
	}
	if strings.TrimSpace(current) != "" {
		texts = append(texts, current)
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			Source: document.Name,
			Index:  i,
			Text:   text,
		})
	}
	return chunks, nil
}

// packSentences splits one oversized paragraph into size-limited pieces.
// A single sentence longer than the limit is hard-sliced by runes.
func (c *HybridChunker) packSentences(paragraph string) []string {
	sentences := c.splitter.FindAllString(paragraph, -1)
	if len(sentences) == 0 {
		sentences = []string{paragraph}
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}

	var out []string
	current := ""
	for _, s := range sentences {
		if s == "" {
			continue
		}
		if utf8.RuneCountInString(s) > c.chunkSize {
			if current != "" {
				out = append(out, current)
				current = ""
			}
			out = append(out, hardSplit(s, c.chunkSize)...)
			continue
		}
		candidate := s
		if current != "" {
			candidate = current + " " + s
		}
		if utf8.RuneCountInString(candidate) <= c.chunkSize {
			current = candidate
			continue
		}
		out = append(out, current)
		current = s
		if c.overlap > 0 {
			seeded := runeTail(out[len(out)-1], c.overlap) + " " + s
			if utf8.RuneCountInString(seeded) <= c.chunkSize {
				current = seeded
			}
		}
	}
	if strings.TrimSpace(current) != "" {
		out = append(out, current)
	}
	return out
}

func splitParagraphs(content string) []string {
	var out []string
	for _, p := range paragraphSplitter.Split(content, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runeTail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func hardSplit(s string, size int) []string {
	r := []rune(s)
	var out []string
	for start := 0; start < len(r); start += size {
		end := start + size
		if end > len(r) {
			end = len(r)
		}
		out = append(out, strings.TrimSpace(string(r[start:end])))
	}
	return out
}
