// Package analytics turns flat transaction and salary lists into the
// derived views the dashboard charts render: a monthly income/expense time
// series, a per-category expense breakdown and overall summary statistics.
//
// All functions are pure over their inputs. Malformed records never abort a
// computation: an unparseable date only excludes that record from period
// bucketing, so partial upstream data cannot blank the whole dashboard.
package analytics

import (
	"log/slog"
	"sort"

	"trackmyfin/internal/core"
)

// maxSeriesMonths caps the monthly series to the most recent periods with
// data.
const maxSeriesMonths = 12

// UnknownCategory is the bucket name for expense transactions whose
// category cannot be resolved. Such records are attributed here rather
// than dropped, so breakdown totals always match the expense total.
const UnknownCategory = "Unknown"

// chartPalette is cycled in bucket order when assigning breakdown colors.
var chartPalette = []string{
	"#3B82F6", "#EF4444", "#10B981", "#F59E0B", "#8B5CF6",
	"#EC4899", "#14B8A6", "#F97316", "#84CC16", "#6366F1",
}

type (
	// MonthlyEntry is one point of the monthly time series.
	MonthlyEntry struct {
		Period   core.Period
		Label    string
		Income   core.Money
		Expenses core.Money
		Net      core.Money
	}

	// CategoryEntry is one slice of the expense-by-category breakdown.
	CategoryEntry struct {
		Name       string
		Amount     core.Money
		Percentage float64
		Color      string
	}

	SummaryStats struct {
		TotalIncome          core.Money
		TotalExpenses        core.Money
		NetBalance           core.Money
		MonthlyAvgIncome     float64
		MonthlyAvgExpenses   float64
		ExpenseCategoryCount int
	}
)

type periodBucket struct {
	income   int64
	expenses int64
}

// bucketByPeriod accumulates transactions and salaries into per-month
// income/expense running totals. Records without a usable date are skipped
// from bucketing only; they still count toward the overall totals computed
// elsewhere.
func bucketByPeriod(transactions []core.Transaction, salaries []core.Salary) map[core.Period]*periodBucket {
	buckets := make(map[core.Period]*periodBucket)

	get := func(p core.Period) *periodBucket {
		b, ok := buckets[p]
		if !ok {
			b = &periodBucket{}
			buckets[p] = b
		}
		return b
	}

	for _, t := range transactions {
		if t.Date.IsZero() {
			slog.Debug("skipping transaction without usable date in monthly series", "id", t.ID)
			continue
		}
		b := get(t.Date.Period())
		switch t.Type.Normalize() {
		case core.Income:
			b.income += t.Amount.Cents
		case core.Expense:
			b.expenses += t.Amount.Cents
		}
	}

	// Salaries always contribute to income, never to expenses.
	for _, s := range salaries {
		if s.Date.IsZero() {
			slog.Debug("skipping salary without usable date in monthly series", "id", s.ID)
			continue
		}
		get(s.Date.Period()).income += s.Amount.Cents
	}

	return buckets
}

// MonthlySeries computes the per-month income, expense and net totals,
// chronologically ascending, truncated to the most recent 12 periods that
// actually carry data. Empty input yields an empty series.
func MonthlySeries(transactions []core.Transaction, salaries []core.Salary) []MonthlyEntry {
	buckets := bucketByPeriod(transactions, salaries)

	periods := make([]core.Period, 0, len(buckets))
	for p := range buckets {
		periods = append(periods, p)
	}
	// Sort by the true (year, month) pair, not the display label.
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	if len(periods) > maxSeriesMonths {
		periods = periods[len(periods)-maxSeriesMonths:]
	}

	series := make([]MonthlyEntry, 0, len(periods))
	for _, p := range periods {
		b := buckets[p]
		series = append(series, MonthlyEntry{
			Period:   p,
			Label:    p.Label(),
			Income:   core.Money{Cents: b.income},
			Expenses: core.Money{Cents: b.expenses},
			Net:      core.Money{Cents: b.income - b.expenses},
		})
	}
	return series
}

// CategoryBreakdown sums expense transactions per resolved category name,
// sorted descending by amount with stable ties, each bucket carrying its
// share of the total expense sum and a palette color.
//
// Name resolution: category list by ID first, then the name hint already
// attached to the transaction, then UnknownCategory. Unresolvable records
// are never dropped.
func CategoryBreakdown(transactions []core.Transaction, categories []core.Category) []CategoryEntry {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	sums := make(map[string]int64)
	var order []string // encounter order, keeps ties stable

	for _, t := range transactions {
		if !t.Type.IsExpense() {
			continue
		}
		name, ok := names[t.CategoryID]
		if !ok || name == "" {
			name = t.CategoryName
		}
		if name == "" {
			name = UnknownCategory
		}
		if _, seen := sums[name]; !seen {
			order = append(order, name)
		}
		sums[name] += t.Amount.Cents
	}

	var total int64
	for _, v := range sums {
		total += v
	}

	entries := make([]CategoryEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, CategoryEntry{Name: name, Amount: core.Money{Cents: sums[name]}})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.Cents > entries[j].Amount.Cents
	})

	for i := range entries {
		if total > 0 {
			entries[i].Percentage = float64(entries[i].Amount.Cents) / float64(total) * 100
		}
		entries[i].Color = chartPalette[i%len(chartPalette)]
	}
	return entries
}

// Summary computes the headline statistics shown above the charts.
func Summary(transactions []core.Transaction, salaries []core.Salary) SummaryStats {
	var income, expenses int64
	categoryIDs := make(map[int64]struct{})

	for _, t := range transactions {
		switch t.Type.Normalize() {
		case core.Income:
			income += t.Amount.Cents
		case core.Expense:
			expenses += t.Amount.Cents
			categoryIDs[t.CategoryID] = struct{}{}
		}
	}
	for _, s := range salaries {
		income += s.Amount.Cents
	}

	// Average over the distinct periods present in the monthly series,
	// with a minimum divisor of 1 so an empty dataset never divides by
	// zero.
	months := len(bucketByPeriod(transactions, salaries))
	if months > maxSeriesMonths {
		months = maxSeriesMonths
	}
	if months == 0 {
		months = 1
	}

	return SummaryStats{
		TotalIncome:          core.Money{Cents: income},
		TotalExpenses:        core.Money{Cents: expenses},
		NetBalance:           core.Money{Cents: income - expenses},
		MonthlyAvgIncome:     float64(income) / 100 / float64(months),
		MonthlyAvgExpenses:   float64(expenses) / 100 / float64(months),
		ExpenseCategoryCount: len(categoryIDs),
	}
}
