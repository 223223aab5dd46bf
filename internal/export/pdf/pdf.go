// Package pdf renders export documents as paginated PDF reports. Long
// tables flow across pages with the header row repeated on each page and
// a page-numbered footer.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"trackmyfin/internal/export"
)

const (
	pageWidth     = 210.0 // A4 portrait, mm
	marginLeft    = 10.0
	marginRight   = 10.0
	printableW    = pageWidth - marginLeft - marginRight
	rowHeight     = 8.0
	pageBreakAt   = 270.0 // start a new page past this Y
	footerOffset  = -12.0
)

// relativeWidths weights the canonical columns: ID, Date, Description,
// Type, Category, Amount. Selected subsets are scaled to the printable
// width.
var relativeWidths = map[string]float64{
	"ID":          1,
	"Date":        2,
	"Description": 4,
	"Type":        1.5,
	"Category":    2.5,
	"Amount":      2,
}

type Renderer struct{}

func New() *Renderer { return &Renderer{} }

var _ export.Renderer = (*Renderer)(nil)

func (r *Renderer) Extension() string   { return "pdf" }
func (r *Renderer) ContentType() string { return "application/pdf" }

func (r *Renderer) Render(_ context.Context, doc export.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, 15, marginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(footerOffset)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(128, 128, 128)
		footer := fmt.Sprintf("Generated on %s | Page %d of {nb} | TrackMyFin",
			doc.GeneratedAt.Format("02 Jan 2006"), pdf.PageNo())
		pdf.CellFormat(printableW, 10, tr(footer), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()

	// Title and period line.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(printableW, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	if doc.DateFrom != "" || doc.DateTo != "" {
		from, to := doc.DateFrom, doc.DateTo
		if from == "" {
			from = "Beginning"
		}
		if to == "" {
			to = "Now"
		}
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(printableW, 8, tr("Period: "+from+" to "+to), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	writeSummary(pdf, tr, doc)

	widths := columnWidths(doc.Headers)
	writeHeaderRow(pdf, tr, doc.Headers, widths)

	pdf.SetFont("Helvetica", "", 10)
	for i, row := range doc.Rows {
		if pdf.GetY() > pageBreakAt {
			pdf.AddPage()
			writeHeaderRow(pdf, tr, doc.Headers, widths)
			pdf.SetFont("Helvetica", "", 10)
		}
		fill := i%2 == 1
		pdf.SetFillColor(248, 250, 252)
		for j, cell := range row {
			if j >= len(widths) {
				break
			}
			pdf.CellFormat(widths[j], rowHeight, tr(cell), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(pdf *fpdf.Fpdf, tr func(string) string, doc export.Document) {
	sym := doc.Summary.Symbol

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(printableW, 8, "Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(printableW, 7, tr("Total Income: "+doc.Summary.TotalIncome.Format(sym)), "", 1, "L", false, 0, "")
	pdf.CellFormat(printableW, 7, tr("Total Expenses: "+doc.Summary.TotalExpenses.Format(sym)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	if doc.Summary.NetBalance.Cents >= 0 {
		pdf.SetTextColor(34, 197, 94)
	} else {
		pdf.SetTextColor(239, 68, 68)
	}
	pdf.CellFormat(printableW, 7, tr("Net Balance: "+doc.Summary.NetBalance.Format(sym)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	if doc.Advisory != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(printableW, 7, tr(doc.Advisory), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func writeHeaderRow(pdf *fpdf.Fpdf, tr func(string) string, headers []string, widths []float64) {
	if len(headers) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(59, 130, 246)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], rowHeight, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(rowHeight)
	pdf.SetTextColor(0, 0, 0)
}

// columnWidths scales the selected columns' relative weights to the
// printable width. Unknown headers get a default weight.
func columnWidths(headers []string) []float64 {
	if len(headers) == 0 {
		return nil
	}
	var total float64
	weights := make([]float64, len(headers))
	for i, h := range headers {
		w, ok := relativeWidths[h]
		if !ok {
			w = 2
		}
		weights[i] = w
		total += w
	}
	widths := make([]float64, len(headers))
	for i, w := range weights {
		widths[i] = printableW * w / total
	}
	return widths
}
