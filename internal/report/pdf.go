package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points on US Letter.
const (
	pageHeight  = 792.0
	leftMargin  = 100.0
	titleY      = 50.0
	firstLineY  = 100.0
	lineSpacing = 20.0
	bottomLimit = pageHeight - 50
)

func writePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(Title, true)
	pdf.SetCreator("hbt", true)
	if !r.GeneratedAt.IsZero() {
		pdf.SetCreationDate(r.GeneratedAt)
	}
	pdf.SetAutoPageBreak(false, 0)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(leftMargin, titleY, Title)

	pdf.SetFont("Helvetica", "", 12)
	y := firstLineY
	if r.Profile.Name != "" {
		pdf.Text(leftMargin, y-25, fmt.Sprintf("%s - generated %s", r.Profile.Name, r.GeneratedAt.Format("January 2, 2006")))
	}
	for _, t := range r.Totals {
		pdf.Text(leftMargin, y, pdf.UnicodeTranslatorFromDescriptor("")(Line(t)))
		y += lineSpacing
		if y > bottomLimit {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 12)
			y = titleY
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
