package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

const (
	AlertSafe     AlertLevel = "SAFE"
	AlertWarning  AlertLevel = "WARNING"
	AlertCritical AlertLevel = "CRITICAL"
	AlertExceeded AlertLevel = "EXCEEDED"
	AlertNoBudget AlertLevel = "NO_BUDGET"
)

type (
	TransactionKind string

	// AlertLevel classifies budget consumption for a month.
	AlertLevel string

	// Transaction is a single income or expense record. It is owned by
	// exactly one user and is immutable except for deletion.
	Transaction struct {
		ID       string
		Owner    string
		Kind     TransactionKind
		Amount   decimal.Decimal
		Category string // expenses only
		Title    string // expense title, or income source
		Date     time.Time
	}

	// Budget is a per-category monthly spending limit, unique per
	// (owner, category, month, year). AlertLevel holds the last computed
	// level; it is a cache refreshed by the alert worker and the alerts
	// endpoint, never an input to evaluation.
	Budget struct {
		ID         string
		Owner      string
		Category   string
		Limit      decimal.Decimal
		Month      int
		Year       int
		AlertLevel AlertLevel
	}
)

var (
	ErrEmptyOwner    = errors.New("empty owner")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrZeroDate      = errors.New("date cannot be zero")
	ErrInvalidPeriod = errors.New("invalid period")
	ErrMissingAmount = errors.New("no amount found in text")
	ErrTitleTooLong  = errors.New("title too long (max 200 characters)")
	ErrNotFound      = errors.New("record not found")
)

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Owner) == "" {
		return ErrEmptyOwner
	}
	switch t.Kind {
	case Income, Expense:
	default:
		return ErrInvalidKind
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if t.Kind == Expense && strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return ErrTitleTooLong
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !b.Limit.IsPositive() {
		return ErrInvalidAmount
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}
