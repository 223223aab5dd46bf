package export

import "trackmyfin/internal/core"

const (
	TypeAll     = "ALL"
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// FilterSpec narrows which records are exported. Bounds are pointers so
// that "not set" is distinguishable from a zero value: an absent bound
// means no restriction on that axis. All predicates are ANDed.
type FilterSpec struct {
	DateFrom    *core.Date   `json:"dateFrom,omitempty"`
	DateTo      *core.Date   `json:"dateTo,omitempty"`
	Type        string       `json:"type,omitempty"` // ALL/INCOME/EXPENSE, empty = ALL
	CategoryIDs []int64      `json:"categoryIds,omitempty"`
	MinAmount   *core.Money  `json:"minAmount,omitempty"`
	MaxAmount   *core.Money  `json:"maxAmount,omitempty"`
}

// Matches reports whether a single record passes every set predicate.
func (s FilterSpec) Matches(t core.Transaction) bool {
	if s.DateFrom != nil && t.Date.Before(s.DateFrom.Time) {
		return false
	}
	if s.DateTo != nil && t.Date.After(s.DateTo.Time) {
		return false
	}
	if s.Type != "" && s.Type != TypeAll && string(t.Type.Normalize()) != s.Type {
		return false
	}
	if len(s.CategoryIDs) > 0 {
		found := false
		for _, id := range s.CategoryIDs {
			if t.CategoryID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if s.MinAmount != nil && t.Amount.Cents < s.MinAmount.Cents {
		return false
	}
	if s.MaxAmount != nil && t.Amount.Cents > s.MaxAmount.Cents {
		return false
	}
	return true
}

// Apply returns the records passing the spec, preserving relative order.
// Filtering to zero records is a valid outcome, not an error.
func Apply(records []core.Transaction, spec FilterSpec) []core.Transaction {
	out := make([]core.Transaction, 0, len(records))
	for _, r := range records {
		if spec.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Summarize computes income/expense/net totals over a record set. The
// exporter calls it on the filtered set so the report's summary matches
// the rows it contains.
func Summarize(records []core.Transaction, symbol string) Summary {
	var income, expenses int64
	for _, r := range records {
		switch r.Type.Normalize() {
		case core.Income:
			income += r.Amount.Cents
		case core.Expense:
			expenses += r.Amount.Cents
		}
	}
	return Summary{
		TotalIncome:   core.Money{Cents: income},
		TotalExpenses: core.Money{Cents: expenses},
		NetBalance:    core.Money{Cents: income - expenses},
		Symbol:        symbol,
	}
}
