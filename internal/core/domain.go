package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single dated, typed, amount-bearing financial record.
	// Amount is always a non-negative magnitude; direction comes from Type.
	Transaction struct {
		ID           int64
		Amount       Money
		Description  string
		Type         TransactionType
		CategoryID   int64
		CategoryName string // upstream hint, used when CategoryID resolves nowhere
		Date         Date
	}

	Category struct {
		ID          int64
		Name        string
		Type        TransactionType
		Description string
		Color       string // presentation only
		Icon        string // presentation only
	}

	// Salary is an income-only record without a category reference.
	Salary struct {
		ID          int64
		Amount      Money
		Date        Date
		Description string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrUnknownType   = errors.New("unknown transaction type")
)

// Normalize uppercases the type so comparisons are case-insensitive.
// Upstream sources deliver "income", "Income" and "INCOME" interchangeably.
func (t TransactionType) Normalize() TransactionType {
	return TransactionType(strings.ToUpper(strings.TrimSpace(string(t))))
}

func (t TransactionType) IsIncome() bool  { return t.Normalize() == Income }
func (t TransactionType) IsExpense() bool { return t.Normalize() == Expense }

func (t TransactionType) Validate() error {
	switch t.Normalize() {
	case Income, Expense:
		return nil
	}
	return ErrUnknownType
}

// dateLayouts lists the formats upstream is known to send. Some endpoints
// return date-only strings, others full timestamps.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses a calendar date defensively across the layouts upstream
// actually produces. The time-of-day portion, when present, is discarded.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return NewDate(y, int(m), d), nil
		}
	}
	return Date{}, ErrInvalidDate
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date as a plain "2006-01-02" string; the zero
// date marshals as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON accepts any layout ParseDate knows, plus null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return t.Date.Validate()
}

func (s Salary) Validate() error {
	if s.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return s.Date.Validate()
}
