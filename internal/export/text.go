package export

import (
	"io"
	"strings"
	"time"

	"procqa/internal/domain"
)

// TextRenderer writes the conversation as plain UTF-8 text with no
// truncation.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer { return &TextRenderer{} }

func (*TextRenderer) Ext() string { return "txt" }

func (*TextRenderer) Render(w io.Writer, turns []domain.Turn, exportedAt time.Time) error {
	banner := strings.Repeat("=", 80)

	var b strings.Builder
	b.WriteString(banner)
	b.WriteString("\nCONVERSATION EXPORT - PROCEDURE MANUALS\n")
	b.WriteString("Date: ")
	b.WriteString(exportedAt.Format("02/01/2006 15:04:05"))
	b.WriteString("\n")
	b.WriteString(banner)
	b.WriteString("\n\n")

	for _, turn := range turns {
		b.WriteString("\n")
		b.WriteString(turn.Role)
		b.WriteString(":\n")
		b.WriteString(strings.Repeat("-", 40))
		b.WriteString("\n")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
