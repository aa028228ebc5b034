package export

import (
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"procqa/internal/domain"
)

// contentLimit caps each rendered turn so a single long answer cannot bloat
// the document. The text renderer stays untruncated.
const contentLimit = 500

// PDFRenderer lays the conversation out on A4 pages, one colored block per
// turn.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (*PDFRenderer) Ext() string { return "pdf" }

func (*PDFRenderer) Render(w io.Writer, turns []domain.Turn, exportedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accented document names survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(31, 71, 136)
	pdf.CellFormat(0, 10, "CONVERSATION EXPORT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, "Procedure manual question answering", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+exportedAt.Format("02/01/2006 15:04:05"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	for _, turn := range turns {
		r, g, b := roleColor(turn.Role)
		pdf.SetTextColor(r, g, b)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, tr(turn.Role+":"), "", 1, "L", false, 0, "")

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(truncate(turn.Content, contentLimit)), "", "L", false)
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

func roleColor(role string) (r, g, b int) {
	if role == domain.RoleUser {
		return 0, 102, 204
	}
	return 0, 102, 0
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
