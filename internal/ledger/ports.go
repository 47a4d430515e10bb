// Package ledger defines the persistence ports the tracker consumes.
// Implementations live in internal/storage (SQLite) and ledger/memory.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

type (
	// TransactionStore persists income and expense records. Deletion
	// enforces the owner match: a mismatched owner reads as not found, so
	// callers can never learn about other owners' records.
	TransactionStore interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		ListTransactions(ctx context.Context, owner string, kind core.TransactionKind, window core.MonthWindow) ([]core.Transaction, error)
		DeleteTransaction(ctx context.Context, owner string, kind core.TransactionKind, id string) error
	}

	// BudgetStore persists per-category monthly limits. UpsertBudget is
	// atomic on the natural key (owner, category, month, year) and
	// overwrites only the limit; concurrent upserts for the same key must
	// never produce duplicates.
	BudgetStore interface {
		UpsertBudget(ctx context.Context, owner, category string, month, year int, limit decimal.Decimal) (core.Budget, error)
		ListBudgets(ctx context.Context, owner string, month, year int) ([]core.Budget, error)
		SetBudgetAlertLevel(ctx context.Context, owner, category string, month, year int, level core.AlertLevel) error
	}

	// Store is the full persistence surface.
	Store interface {
		TransactionStore
		BudgetStore
	}
)
