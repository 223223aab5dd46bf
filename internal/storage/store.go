// Package storage persists fetched dataset snapshots in SQLite. A
// snapshot lets the service keep serving analytics when upstream is
// unreachable and lets the export worker render jobs without refetching.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"trackmyfin/internal/core"
	"trackmyfin/internal/remote"
)

// ErrNoSnapshot is returned when no snapshot exists for the owner.
var ErrNoSnapshot = errors.New("no snapshot for owner")

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveDataset replaces the owner's snapshot atomically.
func (s *Store) SaveDataset(ctx context.Context, owner string, ds remote.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshot_transactions", "snapshot_categories", "snapshot_salaries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE owner = ?", owner); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	fetchedAt := ds.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (owner, fetched_at) VALUES (?, ?)
		ON CONFLICT(owner) DO UPDATE SET fetched_at = excluded.fetched_at`,
		owner, fetchedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	for _, t := range ds.Transactions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_transactions
				(owner, id, amount_cents, description, type, category_id, category_name, date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			owner, t.ID, t.Amount.Cents, t.Description, string(t.Type.Normalize()),
			t.CategoryID, t.CategoryName, dateColumn(t.Date)); err != nil {
			return fmt.Errorf("insert transaction %d: %w", t.ID, err)
		}
	}
	for _, c := range ds.Categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_categories (owner, id, name, type, description, color, icon)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			owner, c.ID, c.Name, string(c.Type.Normalize()), c.Description, c.Color, c.Icon); err != nil {
			return fmt.Errorf("insert category %d: %w", c.ID, err)
		}
	}
	for _, sal := range ds.Salaries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_salaries (owner, id, amount_cents, date, description)
			VALUES (?, ?, ?, ?, ?)`,
			owner, sal.ID, sal.Amount.Cents, dateColumn(sal.Date), sal.Description); err != nil {
			return fmt.Errorf("insert salary %d: %w", sal.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LoadDataset returns the owner's snapshot, or ErrNoSnapshot.
func (s *Store) LoadDataset(ctx context.Context, owner string) (remote.Dataset, error) {
	var ds remote.Dataset

	var fetchedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT fetched_at FROM snapshots WHERE owner = ?", owner).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return remote.Dataset{}, ErrNoSnapshot
	}
	if err != nil {
		return remote.Dataset{}, fmt.Errorf("load snapshot row: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
		ds.FetchedAt = t
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount_cents, description, type, category_id, category_name, date
		FROM snapshot_transactions WHERE owner = ? ORDER BY rowid`, owner)
	if err != nil {
		return remote.Dataset{}, fmt.Errorf("load transactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t core.Transaction
		var typ, date string
		if err := rows.Scan(&t.ID, &t.Amount.Cents, &t.Description, &typ,
			&t.CategoryID, &t.CategoryName, &date); err != nil {
			return remote.Dataset{}, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ)
		t.Date = columnDate(date)
		ds.Transactions = append(ds.Transactions, t)
	}
	if err := rows.Err(); err != nil {
		return remote.Dataset{}, fmt.Errorf("iterate transactions: %w", err)
	}

	catRows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, description, color, icon
		FROM snapshot_categories WHERE owner = ? ORDER BY rowid`, owner)
	if err != nil {
		return remote.Dataset{}, fmt.Errorf("load categories: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var c core.Category
		var typ string
		if err := catRows.Scan(&c.ID, &c.Name, &typ, &c.Description, &c.Color, &c.Icon); err != nil {
			return remote.Dataset{}, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		ds.Categories = append(ds.Categories, c)
	}
	if err := catRows.Err(); err != nil {
		return remote.Dataset{}, fmt.Errorf("iterate categories: %w", err)
	}

	salRows, err := s.db.QueryContext(ctx, `
		SELECT id, amount_cents, date, description
		FROM snapshot_salaries WHERE owner = ? ORDER BY rowid`, owner)
	if err != nil {
		return remote.Dataset{}, fmt.Errorf("load salaries: %w", err)
	}
	defer salRows.Close()
	for salRows.Next() {
		var sal core.Salary
		var date string
		if err := salRows.Scan(&sal.ID, &sal.Amount.Cents, &date, &sal.Description); err != nil {
			return remote.Dataset{}, fmt.Errorf("scan salary: %w", err)
		}
		sal.Date = columnDate(date)
		ds.Salaries = append(ds.Salaries, sal)
	}
	if err := salRows.Err(); err != nil {
		return remote.Dataset{}, fmt.Errorf("iterate salaries: %w", err)
	}

	return ds, nil
}

// dateColumn stores dates as YYYY-MM-DD; records without a usable date
// store the empty string and round-trip back to a zero Date.
func dateColumn(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func columnDate(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}
	}
	return d
}
