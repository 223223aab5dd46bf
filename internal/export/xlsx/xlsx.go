// Package xlsx renders export documents as spreadsheet workbooks.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"trackmyfin/internal/export"
)

const sheetName = "Transactions"

// columnWidths matches the canonical field order: ID, Date, Description,
// Type, Category, Amount.
var columnWidths = []float64{8, 12, 35, 12, 18, 15}

type Renderer struct{}

func New() *Renderer { return &Renderer{} }

var _ export.Renderer = (*Renderer)(nil)

func (r *Renderer) Extension() string { return "xlsx" }

func (r *Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *Renderer) Render(_ context.Context, doc export.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := buildSheetRows(doc)
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("cell reference: %w", err)
			}
			if err := f.SetCellValue(sheetName, ref, cell); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", ref, err)
			}
		}
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// buildSheetRows lays the document out as rows of cells: title, summary
// block, optional advisory, header row, then one row per record. The
// structure survives zero data rows so an empty filtered set still
// produces a readable report.
func buildSheetRows(doc export.Document) [][]string {
	sym := doc.Summary.Symbol
	rows := [][]string{
		{doc.Title},
		{"Generated on: " + doc.GeneratedAt.Format("02 Jan 2006")},
		{},
		{"FINANCIAL SUMMARY"},
		{"Total Income:", doc.Summary.TotalIncome.Format(sym)},
		{"Total Expenses:", doc.Summary.TotalExpenses.Format(sym)},
		{"Net Balance:", doc.Summary.NetBalance.Format(sym)},
		{},
	}
	if doc.Advisory != "" {
		rows = append(rows, []string{doc.Advisory}, []string{})
	}
	rows = append(rows, []string{"TRANSACTION DETAILS"}, []string{})
	if len(doc.Headers) > 0 {
		rows = append(rows, doc.Headers)
	}
	rows = append(rows, doc.Rows...)
	return rows
}
