package analytics

import (
	"math"
	"reflect"
	"testing"

	"trackmyfin/internal/core"
)

func tx(amount int64, typ string, date core.Date, catID int64) core.Transaction {
	return core.Transaction{
		Amount:     core.Money{Cents: amount},
		Type:       core.TransactionType(typ),
		Date:       date,
		CategoryID: catID,
	}
}

func TestMonthlySeriesSingleMonth(t *testing.T) {
	transactions := []core.Transaction{
		tx(100000, "income", core.NewDate(2025, 1, 15), 0),
		tx(30000, "EXPENSE", core.NewDate(2025, 1, 20), 1),
	}

	series := MonthlySeries(transactions, nil)
	if len(series) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(series))
	}
	e := series[0]
	if e.Label != "Jan 2025" {
		t.Fatalf("label: got %q", e.Label)
	}
	if e.Income.Cents != 100000 || e.Expenses.Cents != 30000 || e.Net.Cents != 70000 {
		t.Fatalf("unexpected totals: %+v", e)
	}
}

func TestMonthlySeriesSalariesAreIncome(t *testing.T) {
	salaries := []core.Salary{
		{Amount: core.Money{Cents: 500000}, Date: core.NewDate(2025, 2, 1)},
	}

	series := MonthlySeries(nil, salaries)
	if len(series) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(series))
	}
	e := series[0]
	if e.Label != "Feb 2025" || e.Income.Cents != 500000 || e.Expenses.Cents != 0 || e.Net.Cents != 500000 {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestMonthlySeriesChronologicalByTrueDate(t *testing.T) {
	// Same month label in different years: a lexical sort on "Jan 2024"
	// vs "Feb 2024" vs "Jan 2025" would get this wrong.
	transactions := []core.Transaction{
		tx(100, "income", core.NewDate(2025, 1, 5), 0),
		tx(200, "income", core.NewDate(2024, 2, 5), 0),
		tx(300, "income", core.NewDate(2024, 1, 5), 0),
	}

	series := MonthlySeries(transactions, nil)
	labels := make([]string, len(series))
	for i, e := range series {
		labels[i] = e.Label
	}
	want := []string{"Jan 2024", "Feb 2024", "Jan 2025"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("got %v, want %v", labels, want)
	}
}

func TestMonthlySeriesTruncatesToTwelve(t *testing.T) {
	var transactions []core.Transaction
	for m := 1; m <= 12; m++ {
		transactions = append(transactions, tx(100, "expense", core.NewDate(2024, m, 1), 0))
	}
	transactions = append(transactions,
		tx(100, "expense", core.NewDate(2025, 1, 1), 0),
		tx(100, "expense", core.NewDate(2025, 2, 1), 0),
	)

	series := MonthlySeries(transactions, nil)
	if len(series) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(series))
	}
	// Earliest periods are dropped.
	if series[0].Label != "Mar 2024" {
		t.Fatalf("first entry: got %q, want %q", series[0].Label, "Mar 2024")
	}
	if series[11].Label != "Feb 2025" {
		t.Fatalf("last entry: got %q, want %q", series[11].Label, "Feb 2025")
	}
}

func TestMonthlySeriesEmptyInput(t *testing.T) {
	if series := MonthlySeries(nil, nil); len(series) != 0 {
		t.Fatalf("expected empty series, got %d entries", len(series))
	}
}

func TestMonthlySeriesSkipsUnparseableDates(t *testing.T) {
	transactions := []core.Transaction{
		tx(100, "income", core.NewDate(2025, 1, 1), 0),
		tx(999, "income", core.Date{}, 0), // date failed to parse upstream
	}
	series := MonthlySeries(transactions, nil)
	if len(series) != 1 || series[0].Income.Cents != 100 {
		t.Fatalf("dateless record must be excluded from buckets only: %+v", series)
	}
}

func TestMonthlySeriesIdempotent(t *testing.T) {
	transactions := []core.Transaction{
		tx(100000, "income", core.NewDate(2025, 1, 15), 0),
		tx(30000, "expense", core.NewDate(2025, 1, 20), 1),
	}
	before := make([]core.Transaction, len(transactions))
	copy(before, transactions)

	first := MonthlySeries(transactions, nil)
	second := MonthlySeries(transactions, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two calls with the same input diverged")
	}
	if !reflect.DeepEqual(before, transactions) {
		t.Fatalf("input records were mutated")
	}
}

func TestCategoryBreakdownResolvesNames(t *testing.T) {
	transactions := []core.Transaction{
		tx(30000, "EXPENSE", core.NewDate(2025, 1, 20), 1),
	}
	categories := []core.Category{{ID: 1, Name: "Food"}}

	got := CategoryBreakdown(transactions, categories)
	if len(got) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(got))
	}
	if got[0].Name != "Food" || got[0].Amount.Cents != 30000 || got[0].Percentage != 100 {
		t.Fatalf("unexpected bucket: %+v", got[0])
	}
	if got[0].Color == "" {
		t.Fatalf("bucket must carry a palette color")
	}
}

func TestCategoryBreakdownUnknownCategory(t *testing.T) {
	transactions := []core.Transaction{
		tx(30000, "expense", core.NewDate(2025, 1, 20), 99),
	}
	categories := []core.Category{{ID: 1, Name: "Food"}}

	got := CategoryBreakdown(transactions, categories)
	if len(got) != 1 || got[0].Name != UnknownCategory || got[0].Percentage != 100 {
		t.Fatalf("unresolvable category must be attributed to %q: %+v", UnknownCategory, got)
	}
}

func TestCategoryBreakdownNameHintFallback(t *testing.T) {
	transactions := []core.Transaction{
		{Amount: core.Money{Cents: 100}, Type: "expense", Date: core.NewDate(2025, 1, 1), CategoryID: 7, CategoryName: "Travel"},
	}
	got := CategoryBreakdown(transactions, nil)
	if len(got) != 1 || got[0].Name != "Travel" {
		t.Fatalf("expected name hint fallback, got %+v", got)
	}
}

func TestCategoryBreakdownPercentagesSum(t *testing.T) {
	transactions := []core.Transaction{
		tx(10000, "expense", core.NewDate(2025, 1, 1), 1),
		tx(20000, "expense", core.NewDate(2025, 1, 2), 2),
		tx(30000, "expense", core.NewDate(2025, 1, 3), 3),
	}
	categories := []core.Category{
		{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"},
	}

	got := CategoryBreakdown(transactions, categories)
	var sum float64
	for _, e := range got {
		sum += e.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages sum to %v, want 100", sum)
	}
	// Sorted descending by amount.
	if got[0].Name != "C" || got[2].Name != "A" {
		t.Fatalf("expected descending amounts, got %+v", got)
	}
}

func TestCategoryBreakdownZeroTotal(t *testing.T) {
	// Expense transactions with zero amounts: every percentage must be 0,
	// never NaN.
	transactions := []core.Transaction{
		tx(0, "expense", core.NewDate(2025, 1, 1), 1),
	}
	got := CategoryBreakdown(transactions, []core.Category{{ID: 1, Name: "A"}})
	if len(got) != 1 || got[0].Percentage != 0 {
		t.Fatalf("zero total must yield zero percentages: %+v", got)
	}
}

func TestCategoryBreakdownIgnoresIncome(t *testing.T) {
	transactions := []core.Transaction{
		tx(100, "income", core.NewDate(2025, 1, 1), 1),
	}
	if got := CategoryBreakdown(transactions, nil); len(got) != 0 {
		t.Fatalf("income transactions must not appear in the breakdown: %+v", got)
	}
}

func TestSummary(t *testing.T) {
	transactions := []core.Transaction{
		tx(100000, "income", core.NewDate(2025, 1, 15), 0),
		tx(30000, "EXPENSE", core.NewDate(2025, 1, 20), 1),
		tx(20000, "expense", core.NewDate(2025, 2, 3), 2),
	}
	salaries := []core.Salary{
		{Amount: core.Money{Cents: 500000}, Date: core.NewDate(2025, 2, 1)},
	}

	got := Summary(transactions, salaries)
	if got.TotalIncome.Cents != 600000 {
		t.Fatalf("total income: got %d", got.TotalIncome.Cents)
	}
	if got.TotalExpenses.Cents != 50000 {
		t.Fatalf("total expenses: got %d", got.TotalExpenses.Cents)
	}
	if got.NetBalance.Cents != 550000 {
		t.Fatalf("net balance: got %d", got.NetBalance.Cents)
	}
	if got.ExpenseCategoryCount != 2 {
		t.Fatalf("expense categories: got %d", got.ExpenseCategoryCount)
	}
	// Two distinct periods (Jan, Feb 2025).
	if math.Abs(got.MonthlyAvgIncome-3000) > 1e-9 {
		t.Fatalf("avg income: got %v", got.MonthlyAvgIncome)
	}
	if math.Abs(got.MonthlyAvgExpenses-250) > 1e-9 {
		t.Fatalf("avg expenses: got %v", got.MonthlyAvgExpenses)
	}
}

func TestSummarySalariesOnly(t *testing.T) {
	salaries := []core.Salary{
		{Amount: core.Money{Cents: 500000}, Date: core.NewDate(2025, 2, 1)},
	}
	got := Summary(nil, salaries)
	if got.TotalIncome.Cents != 500000 || got.TotalExpenses.Cents != 0 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestSummaryEmptyAvoidsDivisionByZero(t *testing.T) {
	got := Summary(nil, nil)
	if got.MonthlyAvgIncome != 0 || got.MonthlyAvgExpenses != 0 {
		t.Fatalf("empty dataset must yield zero averages: %+v", got)
	}
}

func TestSeriesIncomeMatchesSummaryIncome(t *testing.T) {
	// Consistency between the two aggregation entry points: the series
	// income summed over all entries equals the summary's total income.
	transactions := []core.Transaction{
		tx(100000, "income", core.NewDate(2025, 1, 15), 0),
		tx(25000, "Income", core.NewDate(2025, 3, 2), 0),
		tx(30000, "expense", core.NewDate(2025, 1, 20), 1),
	}
	salaries := []core.Salary{
		{Amount: core.Money{Cents: 500000}, Date: core.NewDate(2025, 2, 1)},
	}

	var seriesIncome int64
	for _, e := range MonthlySeries(transactions, salaries) {
		seriesIncome += e.Income.Cents
	}
	stats := Summary(transactions, salaries)
	if seriesIncome != stats.TotalIncome.Cents {
		t.Fatalf("series income %d != summary income %d", seriesIncome, stats.TotalIncome.Cents)
	}
}
