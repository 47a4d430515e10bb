// Package memory provides an in-memory ledger store for development and
// tests. It implements the same ports as the SQLite store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type budgetKey struct {
	owner    string
	category string
	month    int
	year     int
}

// Store keeps all records in maps guarded by a single mutex. Budget
// upserts are atomic under the lock, matching the SQLite store's
// ON CONFLICT semantics.
type Store struct {
	mu           sync.RWMutex
	transactions map[string]core.Transaction
	budgets      map[budgetKey]core.Budget
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		transactions: make(map[string]core.Transaction),
		budgets:      make(map[budgetKey]core.Budget),
	}
}

func (s *Store) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = tx
	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, owner string, kind core.TransactionKind, window core.MonthWindow) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.Owner != owner || tx.Kind != kind || !window.Contains(tx.Date) {
			continue
		}
		out = append(out, tx)
	}
	// Newest first, id as tie-break for a stable order.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, owner string, kind core.TransactionKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok || tx.Owner != owner || tx.Kind != kind {
		return core.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) UpsertBudget(ctx context.Context, owner, category string, month, year int, limit decimal.Decimal) (core.Budget, error) {
	key := budgetKey{owner: owner, category: category, month: month, year: year}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := core.Budget{
		ID:         uuid.NewString(),
		Owner:      owner,
		Category:   category,
		Limit:      limit,
		Month:      month,
		Year:       year,
		AlertLevel: core.AlertSafe,
	}
	if existing, ok := s.budgets[key]; ok {
		// Only the limit changes; the record keeps its identity and the
		// cached alert level.
		b.ID = existing.ID
		b.AlertLevel = existing.AlertLevel
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("validate budget: %w", err)
	}
	s.budgets[key] = b
	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context, owner string, month, year int) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Budget, 0)
	for _, b := range s.budgets {
		if b.Owner == owner && b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (s *Store) SetBudgetAlertLevel(ctx context.Context, owner, category string, month, year int, level core.AlertLevel) error {
	key := budgetKey{owner: owner, category: category, month: month, year: year}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[key]
	if !ok {
		return core.ErrNotFound
	}
	b.AlertLevel = level
	s.budgets[key] = b
	return nil
}
