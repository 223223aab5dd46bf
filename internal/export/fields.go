package export

import (
	"strconv"

	"trackmyfin/internal/core"
)

// dateDisplayLayout renders calendar dates inside artifacts.
const dateDisplayLayout = "02 Jan 2006"

// FieldSelection flags which transaction attributes are projected into the
// output document. An empty selection is not an error; it just produces
// rows with no columns.
type FieldSelection struct {
	ID          bool `json:"id"`
	Date        bool `json:"date"`
	Description bool `json:"description"`
	Type        bool `json:"type"`
	Category    bool `json:"category"`
	Amount      bool `json:"amount"`
}

// DefaultFieldSelection mirrors what the export dialog preselects.
func DefaultFieldSelection() FieldSelection {
	return FieldSelection{
		Date:        true,
		Description: true,
		Type:        true,
		Category:    true,
		Amount:      true,
	}
}

// Any reports whether at least one field is selected.
func (f FieldSelection) Any() bool {
	return f.ID || f.Date || f.Description || f.Type || f.Category || f.Amount
}

// Columns returns the selected column titles in canonical order:
// ID, Date, Description, Type, Category, Amount.
func (f FieldSelection) Columns() []string {
	var cols []string
	if f.ID {
		cols = append(cols, "ID")
	}
	if f.Date {
		cols = append(cols, "Date")
	}
	if f.Description {
		cols = append(cols, "Description")
	}
	if f.Type {
		cols = append(cols, "Type")
	}
	if f.Category {
		cols = append(cols, "Category")
	}
	if f.Amount {
		cols = append(cols, "Amount")
	}
	return cols
}

// ProjectRows builds one display row per record containing the selected
// fields. Amounts carry the currency symbol and a minus prefix for
// expenses; the underlying magnitude stays non-negative.
func ProjectRows(records []core.Transaction, f FieldSelection, symbol string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		var row []string
		if f.ID {
			row = append(row, strconv.FormatInt(r.ID, 10))
		}
		if f.Date {
			row = append(row, formatDate(r.Date))
		}
		if f.Description {
			row = append(row, r.Description)
		}
		if f.Type {
			row = append(row, string(r.Type.Normalize()))
		}
		if f.Category {
			name := r.CategoryName
			if name == "" {
				name = "Unknown"
			}
			row = append(row, name)
		}
		if f.Amount {
			row = append(row, formatAmountCell(r, symbol))
		}
		rows = append(rows, row)
	}
	return rows
}

func formatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateDisplayLayout)
}

// formatAmountCell conveys direction visually: expenses get a leading
// minus, income renders bare.
func formatAmountCell(r core.Transaction, symbol string) string {
	s := r.Amount.Format(symbol)
	if r.Type.IsExpense() {
		return "-" + s
	}
	return s
}
