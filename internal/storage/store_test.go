package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"trackmyfin/internal/core"
	"trackmyfin/internal/remote"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func testDataset(t *testing.T) remote.Dataset {
	return remote.Dataset{
		Transactions: []core.Transaction{
			{ID: 1, Amount: core.Money{Cents: 150000}, Description: "Groceries",
				Type: core.Expense, CategoryID: 3, CategoryName: "Food", Date: mustDate(t, "2025-01-15")},
			{ID: 2, Amount: core.Money{Cents: 9900}, Description: "Missing date",
				Type: core.Expense, CategoryID: 3},
		},
		Categories: []core.Category{
			{ID: 3, Name: "Food", Type: core.Expense, Color: "#ef4444"},
		},
		Salaries: []core.Salary{
			{ID: 7, Amount: core.Money{Cents: 500000}, Date: mustDate(t, "2025-01-01"), Description: "January"},
		},
		FetchedAt: time.Date(2025, 1, 20, 10, 30, 0, 0, time.UTC),
	}
}

func TestSaveAndLoadDataset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ds := testDataset(t)

	if err := store.SaveDataset(ctx, "owner-a", ds); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	got, err := store.LoadDataset(ctx, "owner-a")
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}

	if len(got.Transactions) != 2 || len(got.Categories) != 1 || len(got.Salaries) != 1 {
		t.Fatalf("unexpected counts: %d transactions, %d categories, %d salaries",
			len(got.Transactions), len(got.Categories), len(got.Salaries))
	}
	if got.Transactions[0].Amount.Cents != 150000 {
		t.Errorf("amount = %d, want 150000", got.Transactions[0].Amount.Cents)
	}
	if got.Transactions[0].CategoryName != "Food" {
		t.Errorf("category name = %q, want Food", got.Transactions[0].CategoryName)
	}
	if !got.Transactions[0].Date.Equal(ds.Transactions[0].Date.Time) {
		t.Errorf("date = %v, want %v", got.Transactions[0].Date, ds.Transactions[0].Date)
	}
	if !got.Transactions[1].Date.IsZero() {
		t.Errorf("missing date should round-trip to zero, got %v", got.Transactions[1].Date)
	}
	if got.Salaries[0].Description != "January" {
		t.Errorf("salary description = %q", got.Salaries[0].Description)
	}
	if !got.FetchedAt.Equal(ds.FetchedAt) {
		t.Errorf("fetched at = %v, want %v", got.FetchedAt, ds.FetchedAt)
	}
}

func TestSaveReplacesSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveDataset(ctx, "owner-a", testDataset(t)); err != nil {
		t.Fatalf("first save: %v", err)
	}

	smaller := remote.Dataset{
		Transactions: []core.Transaction{
			{ID: 9, Amount: core.Money{Cents: 100}, Type: core.Income, Date: mustDate(t, "2025-02-01")},
		},
		FetchedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.SaveDataset(ctx, "owner-a", smaller); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.LoadDataset(ctx, "owner-a")
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(got.Transactions) != 1 || len(got.Categories) != 0 || len(got.Salaries) != 0 {
		t.Fatalf("replace left stale rows: %d transactions, %d categories, %d salaries",
			len(got.Transactions), len(got.Categories), len(got.Salaries))
	}
	if got.Transactions[0].ID != 9 {
		t.Errorf("transaction id = %d, want 9", got.Transactions[0].ID)
	}
}

func TestSnapshotsIsolatedPerOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveDataset(ctx, "owner-a", testDataset(t)); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	if _, err := store.LoadDataset(ctx, "owner-b"); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot for other owner, got %v", err)
	}
}

func TestLoadDatasetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadDataset(context.Background(), "nobody")
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}
