package export

import "trackmyfin/internal/core"

const (
	// salaryIDOffset keeps synthetic salary record identifiers disjoint
	// from real transaction identifiers inside one export.
	salaryIDOffset = 10000

	// SalaryCategoryID is the reserved sentinel category for merged
	// salary records.
	SalaryCategoryID = 9999

	// SalaryCategoryName is the display name of the sentinel category.
	SalaryCategoryName = "Salary"
)

// MergeSalariesAsIncome recasts salary records as synthetic INCOME
// transactions and appends them after the real transactions. The order is
// stable: exports that apply no further sort keep transactions first,
// salaries last, each in input order.
func MergeSalariesAsIncome(transactions []core.Transaction, salaries []core.Salary) []core.Transaction {
	merged := make([]core.Transaction, 0, len(transactions)+len(salaries))
	merged = append(merged, transactions...)
	for i, s := range salaries {
		merged = append(merged, core.Transaction{
			ID:           salaryIDOffset + int64(i),
			Amount:       s.Amount,
			Description:  "Salary: " + s.Description,
			Type:         core.Income,
			CategoryID:   SalaryCategoryID,
			CategoryName: SalaryCategoryName,
			Date:         s.Date,
		})
	}
	return merged
}
