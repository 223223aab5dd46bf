package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"trackmyfin/internal/core"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	requireAuth := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			h(w, r)
		}
	}

	mux.HandleFunc("/api/transactions", requireAuth(func(w http.ResponseWriter, _ *http.Request) {
		// Deliberately loose shapes: string amount, alternate date field,
		// lowercase type, unparseable pieces.
		w.Write([]byte(`[
			{"id": 1, "amount": 1000, "description": "Pay", "type": "income", "date": "2025-01-15"},
			{"id": 2, "amount": "300.50", "description": "Food", "type": "EXPENSE", "categoryId": 1, "transactionDate": "2025-01-20T10:30:00Z"},
			{"id": 3, "amount": "oops", "description": "Broken", "type": "Expense", "categoryId": 1, "date": "never"}
		]`))
	}))
	mux.HandleFunc("/api/categories", requireAuth(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id": 1, "name": "Food", "type": "expense", "color": "#EF4444"}]`))
	}))
	mux.HandleFunc("/api/salaries", requireAuth(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id": 9, "amount": "5000", "date": "2025-02-01", "description": "February"}]`))
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestTransactionsNormalization(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, Session{Token: "test-token"})

	got, err := c.Transactions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(got))
	}

	if got[0].Type != core.Income || got[0].Amount.Cents != 100000 {
		t.Fatalf("record 0 not normalized: %+v", got[0])
	}
	if !got[0].Date.Equal(core.NewDate(2025, 1, 15).Time) {
		t.Fatalf("record 0 date: %v", got[0].Date)
	}

	// transactionDate variant with a time part, string amount.
	if got[1].Amount.Cents != 30050 {
		t.Fatalf("record 1 amount: %+v", got[1].Amount)
	}
	if !got[1].Date.Equal(core.NewDate(2025, 1, 20).Time) {
		t.Fatalf("record 1 date: %v", got[1].Date)
	}

	// Malformed pieces are coerced, never dropped.
	if got[2].Amount.Cents != 0 {
		t.Fatalf("unparseable amount must coerce to zero: %+v", got[2])
	}
	if !got[2].Date.IsZero() {
		t.Fatalf("unparseable date must stay zero: %+v", got[2])
	}
	if got[2].Type != core.Expense {
		t.Fatalf("mixed-case type must normalize: %+v", got[2])
	}
}

func TestDatasetFetchesEverything(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, Session{Token: "test-token"})

	ds, err := c.Dataset(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Transactions) != 3 || len(ds.Categories) != 1 || len(ds.Salaries) != 1 {
		t.Fatalf("incomplete dataset: %d/%d/%d",
			len(ds.Transactions), len(ds.Categories), len(ds.Salaries))
	}
	if ds.FetchedAt.IsZero() {
		t.Fatalf("dataset must carry its fetch time")
	}
	// Category names are attached for downstream fallback resolution.
	if ds.Transactions[1].CategoryName != "Food" {
		t.Fatalf("category name not attached: %+v", ds.Transactions[1])
	}
	if ds.Salaries[0].Amount.Cents != 500000 {
		t.Fatalf("salary not normalized: %+v", ds.Salaries[0])
	}
}

func TestClientRejectedWithoutToken(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, Session{Token: "wrong"})

	if _, err := c.Transactions(context.Background()); err == nil {
		t.Fatalf("expected error for rejected token")
	}
}

func TestSessionOwnerIsStable(t *testing.T) {
	a := Session{Token: "abc"}.Owner()
	b := Session{Token: "abc"}.Owner()
	other := Session{Token: "xyz"}.Owner()

	if a != b {
		t.Fatalf("owner must be deterministic")
	}
	if a == other {
		t.Fatalf("different tokens must map to different owners")
	}
	if a == "abc" {
		t.Fatalf("owner must not expose the raw token")
	}
}
