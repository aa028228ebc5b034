package converter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// extractDocx walks the document body and joins paragraph and table text
// with blank lines, preserving paragraph boundaries for the chunker.
func extractDocx(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	doc, err := docx.Parse(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", err
	}
	var blocks []string
	for _, it := range doc.Document.Body.Items {
		switch block := it.(type) {
		case *docx.Paragraph, *docx.Table:
			text := strings.TrimSpace(fmt.Sprint(block))
			if text != "" {
				blocks = append(blocks, text)
			}
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}
