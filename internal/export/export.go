package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"procqa/internal/domain"
	"procqa/internal/history"
)

// ErrNothingToExport is returned when the conversation log holds no turns.
var ErrNothingToExport = errors.New("no conversation to export")

// Renderer writes one conversation to w in a concrete file format.
type Renderer interface {
	Ext() string
	Render(w io.Writer, turns []domain.Turn, exportedAt time.Time) error
}

// Exporter writes the current conversation transcript to a timestamped file
// under dir.
type Exporter struct {
	dir        string
	renderer   Renderer
	transcript *history.Log
}

func New(dir string, renderer Renderer, transcript *history.Log) *Exporter {
	if dir == "" {
		dir = "exports"
	}
	return &Exporter{dir: dir, renderer: renderer, transcript: transcript}
}

// Export renders the transcript and writes it to
// <dir>/conversation_<YYYYMMDD_HHMMSS>.<ext>, creating dir on demand. An
// empty transcript returns ErrNothingToExport without touching the
// filesystem.
func (e *Exporter) Export() (string, error) {
	turns := e.transcript.Turns()
	if len(turns) == 0 {
		return "", ErrNothingToExport
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := e.renderer.Render(&buf, turns, now); err != nil {
		return "", fmt.Errorf("render conversation: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(e.dir, fmt.Sprintf("conversation_%s.%s", now.Format("20060102_150405"), e.renderer.Ext()))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	log.WithFields(log.Fields{"file": path, "turns": len(turns)}).Info("conversation exported")
	return path, nil
}

// RendererFor maps the configured export format to a renderer. "auto"
// probes the PDF renderer with a throwaway conversation and falls back to
// text when it cannot produce output.
func RendererFor(format string) Renderer {
	switch format {
	case "pdf":
		return NewPDFRenderer()
	case "text":
		return NewTextRenderer()
	default:
		pdf := NewPDFRenderer()
		probe := []domain.Turn{{Role: domain.RoleUser, Content: "probe"}}
		if err := pdf.Render(io.Discard, probe, time.Now()); err != nil {
			log.WithError(err).Warn("pdf renderer unavailable, exporting as text")
			return NewTextRenderer()
		}
		return pdf
	}
}
