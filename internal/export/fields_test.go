package export

import (
	"reflect"
	"testing"

	"trackmyfin/internal/core"
)

func TestColumnsCanonicalOrder(t *testing.T) {
	all := FieldSelection{ID: true, Date: true, Description: true, Type: true, Category: true, Amount: true}
	want := []string{"ID", "Date", "Description", "Type", "Category", "Amount"}
	if got := all.Columns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Subsets keep the same relative order regardless of flag order.
	subset := FieldSelection{Amount: true, ID: true, Category: true}
	want = []string{"ID", "Category", "Amount"}
	if got := subset.Columns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestColumnsEmptySelection(t *testing.T) {
	if got := (FieldSelection{}).Columns(); len(got) != 0 {
		t.Fatalf("empty selection must produce no columns, got %v", got)
	}
}

func TestProjectRows(t *testing.T) {
	records := []core.Transaction{
		{
			ID:           7,
			Amount:       core.Money{Cents: 100000},
			Description:  "Groceries",
			Type:         "expense",
			CategoryName: "Food",
			Date:         core.NewDate(2025, 1, 15),
		},
		{
			ID:          8,
			Amount:      core.Money{Cents: 500000},
			Description: "Consulting",
			Type:        "INCOME",
			Date:        core.NewDate(2025, 1, 31),
		},
	}
	sel := FieldSelection{ID: true, Date: true, Description: true, Type: true, Category: true, Amount: true}

	rows := ProjectRows(records, sel, "₹")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	want := []string{"7", "15 Jan 2025", "Groceries", "EXPENSE", "Food", "-₹1,000"}
	if !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("row 0: got %v, want %v", rows[0], want)
	}

	// Income renders without a sign; missing category falls back to Unknown.
	want = []string{"8", "31 Jan 2025", "Consulting", "INCOME", "Unknown", "₹5,000"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("row 1: got %v, want %v", rows[1], want)
	}
}

func TestProjectRowsSubset(t *testing.T) {
	records := []core.Transaction{
		{ID: 1, Amount: core.Money{Cents: 12345}, Type: "expense", Date: core.NewDate(2025, 3, 2)},
	}
	rows := ProjectRows(records, FieldSelection{Date: true, Amount: true}, "₹")
	want := []string{"02 Mar 2025", "-₹123.45"}
	if !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("got %v, want %v", rows[0], want)
	}
}

func TestProjectRowsEmptySelection(t *testing.T) {
	records := []core.Transaction{
		{ID: 1, Amount: core.Money{Cents: 100}, Type: "expense", Date: core.NewDate(2025, 1, 1)},
	}
	rows := ProjectRows(records, FieldSelection{}, "₹")
	if len(rows) != 1 || len(rows[0]) != 0 {
		t.Fatalf("empty selection must yield rows with no columns: %v", rows)
	}
}
