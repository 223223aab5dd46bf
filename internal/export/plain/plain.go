// Package plain is the simplified fallback renderer: a CSV artifact with
// the same prologue and summary blocks as the richer formats but no
// styling. It exists so a primary renderer failure degrades to a usable
// file instead of a hard export failure.
package plain

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"trackmyfin/internal/export"
)

type Renderer struct{}

func New() *Renderer { return &Renderer{} }

var _ export.Renderer = (*Renderer)(nil)

func (r *Renderer) Extension() string   { return "csv" }
func (r *Renderer) ContentType() string { return "text/csv" }

func (r *Renderer) Render(_ context.Context, doc export.Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	prologue := [][]string{
		{doc.Title},
		{"Generated on: " + doc.GeneratedAt.Format("02 Jan 2006")},
		{},
		{"FINANCIAL SUMMARY"},
		{"Total Income:", doc.Summary.TotalIncome.Format(doc.Summary.Symbol)},
		{"Total Expenses:", doc.Summary.TotalExpenses.Format(doc.Summary.Symbol)},
		{"Net Balance:", doc.Summary.NetBalance.Format(doc.Summary.Symbol)},
	}
	if doc.Advisory != "" {
		prologue = append(prologue, []string{}, []string{doc.Advisory})
	}
	prologue = append(prologue, []string{}, []string{"TRANSACTION DETAILS"}, []string{})

	for _, rec := range prologue {
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write prologue: %w", err)
		}
	}
	if len(doc.Headers) > 0 {
		if err := w.Write(doc.Headers); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for _, row := range doc.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
