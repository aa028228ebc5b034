package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procqa/internal/domain"
	"procqa/internal/history"
)

func sampleLog() *history.Log {
	l := history.New()
	l.Append(domain.RoleUser, "How do I restart the pump?")
	l.Append(domain.RoleAssistant, "1. Close the intake valve.\n2. Press the reset button.")
	return l
}

func TestExportWritesTextFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	exporter := New(dir, NewTextRenderer(), sampleLog())

	path, err := exporter.Export()
	require.NoError(t, err)
	assert.Regexp(t, `^conversation_\d{8}_\d{6}\.txt$`, filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, strings.Repeat("=", 80))
	assert.Contains(t, content, "CONVERSATION EXPORT - PROCEDURE MANUALS")
	assert.Contains(t, content, "user:\n"+strings.Repeat("-", 40)+"\nHow do I restart the pump?")
	assert.Contains(t, content, "assistant:")
	assert.Contains(t, content, "Press the reset button.")
	// One separator line per logged turn.
	assert.Equal(t, 2, strings.Count(content, strings.Repeat("-", 40)))
}

func TestExportWritesPDFFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	exporter := New(dir, NewPDFRenderer(), sampleLog())

	path, err := exporter.Export()
	require.NoError(t, err)
	assert.Equal(t, ".pdf", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportEmptyTranscript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	exporter := New(dir, NewTextRenderer(), history.New())

	_, err := exporter.Export()
	require.ErrorIs(t, err, ErrNothingToExport)
	// Nothing may be written for an empty transcript, not even the directory.
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTextRendererLayout(t *testing.T) {
	turns := []domain.Turn{
		{Role: domain.RoleUser, Content: "q"},
		{Role: domain.RoleAssistant, Content: "a"},
	}
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer().Render(&buf, turns, at))

	out := buf.String()
	assert.Contains(t, out, "Date: 02/01/2026 15:04:05")
	assert.Less(t, strings.Index(out, "user:"), strings.Index(out, "assistant:"))
}

func TestTruncateByRunes(t *testing.T) {
	long := strings.Repeat("é", contentLimit+1)
	assert.Equal(t, strings.Repeat("é", contentLimit)+"...", truncate(long, contentLimit))

	assert.Equal(t, "unchanged", truncate("unchanged", contentLimit))
}

func TestRendererFor(t *testing.T) {
	assert.IsType(t, &TextRenderer{}, RendererFor("text"))
	assert.IsType(t, &PDFRenderer{}, RendererFor("pdf"))
	assert.IsType(t, &PDFRenderer{}, RendererFor("auto"))
}
