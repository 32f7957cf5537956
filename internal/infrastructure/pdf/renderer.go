package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"

	"github.com/pharmagen/pharmagen/internal/core/domain/report"
)

// Renderer implements ports.ReportRenderer with fpdf. The built-in core fonts
// only cover latin-1, so body text is sanitized the same way the report panel
// does: unrepresentable runes become '?'.
type Renderer struct {
	logger *logrus.Logger
}

func NewRenderer(logger *logrus.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render implements ports.ReportRenderer.Render.
func (r *Renderer) Render(rep *report.Report) ([]byte, string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, sanitize(rep.Title), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("Generated on %s", rep.GeneratedAt.Format("2006-01-02 15:04:05")), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.Ln(5)
		pdf.SetFont("Arial", "I", 7)
		pdf.CellFormat(0, 10, "Disclaimer: This is an AI-generated report for conceptual purposes only.", "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 10, sanitize(fmt.Sprintf("Report in %s", rep.Language)), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, section := range rep.Sections {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, sanitize(section.Title+":"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, sanitize(section.Body), "", "L", false)
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Disclaimer:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, 5, report.Disclaimer, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render PDF: %w", err)
	}

	filename := fmt.Sprintf("pharmagen_report_%s.pdf", time.Now().Format("20060102_150405"))
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"filename": filename, "bytes": buf.Len()}).Debug("PDF report rendered")
	}
	return buf.Bytes(), filename, nil
}

// sanitize maps text into the latin-1 range supported by the core fonts.
func sanitize(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r <= 0xFF {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
