package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"procqa/internal/domain"
)

// FileConverter extracts plain text from the document formats the ingestion
// pipeline accepts: Word (.docx) and PDF (.pdf).
type FileConverter struct{}

func New() *FileConverter {
	return &FileConverter{}
}

// Supports reports whether the file has an ingestible extension.
func (c *FileConverter) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx":
		return true
	}
	return false
}

// Convert reads the file and extracts its plain text content.
func (c *FileConverter) Convert(path string) (domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		content, err = extractPDF(f)
	case ".docx":
		content, err = extractDocx(f)
	default:
		return domain.Document{}, fmt.Errorf("unsupported document type %q", filepath.Ext(path))
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	return domain.Document{
		Path:    path,
		Name:    filepath.Base(path),
		Content: content,
	}, nil
}
