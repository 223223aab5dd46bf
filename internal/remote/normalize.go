package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"trackmyfin/internal/core"
)

// The upstream API is inconsistent about field names and value shapes:
// dates arrive as "date" or "transactionDate", date-only or with a time
// part; amounts arrive as JSON numbers or quoted strings; types in any
// case. The raw types below absorb all of that in one place.

type rawTransaction struct {
	ID              int64           `json:"id"`
	Amount          json.RawMessage `json:"amount"`
	Description     string          `json:"description"`
	Type            string          `json:"type"`
	CategoryID      int64           `json:"categoryId"`
	CategoryName    string          `json:"categoryName"`
	Date            string          `json:"date"`
	TransactionDate string          `json:"transactionDate"`
}

type rawCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

type rawSalary struct {
	ID          int64           `json:"id"`
	Amount      json.RawMessage `json:"amount"`
	Date        string          `json:"date"`
	SalaryDate  string          `json:"salaryDate"`
	Description string          `json:"description"`
}

func (r rawTransaction) normalize(ctx context.Context) core.Transaction {
	return core.Transaction{
		ID:           r.ID,
		Amount:       coerceAmount(ctx, r.Amount, r.ID),
		Description:  r.Description,
		Type:         core.TransactionType(r.Type).Normalize(),
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		Date:         coerceDate(ctx, firstNonEmpty(r.Date, r.TransactionDate), r.ID),
	}
}

func (r rawCategory) normalize() core.Category {
	return core.Category{
		ID:          r.ID,
		Name:        r.Name,
		Type:        core.TransactionType(r.Type).Normalize(),
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
	}
}

func (r rawSalary) normalize(ctx context.Context) core.Salary {
	return core.Salary{
		ID:          r.ID,
		Amount:      coerceAmount(ctx, r.Amount, r.ID),
		Date:        coerceDate(ctx, firstNonEmpty(r.Date, r.SalaryDate), r.ID),
		Description: r.Description,
	}
}

// coerceAmount parses a raw JSON amount, quoted or not. An unparseable
// amount is coerced to zero rather than failing the whole fetch.
func coerceAmount(ctx context.Context, raw json.RawMessage, id int64) core.Money {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(raw), `"`)))
	if s == "" || s == "null" {
		return core.Money{}
	}
	m, err := core.ParseAmount(s)
	if err != nil {
		slog.WarnContext(ctx, "coercing unparseable amount to zero", "id", id, "amount", s)
		return core.Money{}
	}
	return m
}

// coerceDate parses a raw date string. A record with an unparseable date
// keeps a zero date: it still counts toward overall totals but is
// excluded from period bucketing downstream.
func coerceDate(ctx context.Context, s string, id int64) core.Date {
	if strings.TrimSpace(s) == "" {
		return core.Date{}
	}
	d, err := core.ParseDate(s)
	if err != nil {
		slog.WarnContext(ctx, "record has unparseable date, excluded from period buckets", "id", id, "date", s)
		return core.Date{}
	}
	return d
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
