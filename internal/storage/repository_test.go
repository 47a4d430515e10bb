package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func expenseTx(owner, category string, amount int64, date time.Time) core.Transaction {
	return core.Transaction{
		Owner:    owner,
		Kind:     core.Expense,
		Amount:   decimal.NewFromInt(amount),
		Category: category,
		Title:    category,
		Date:     date,
	}
}

func TestCreateAndListTransactions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	w, _ := core.NewMonthWindow(3, 2025)

	created, err := repo.CreateTransaction(ctx, expenseTx("u1", "Food", 100, time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	// Outside the window, other owner, other kind: all invisible.
	if _, err := repo.CreateTransaction(ctx, expenseTx("u1", "Food", 50, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("create next month: %v", err)
	}
	if _, err := repo.CreateTransaction(ctx, expenseTx("u2", "Food", 70, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("create other owner: %v", err)
	}
	income := core.Transaction{
		Owner:  "u1",
		Kind:   core.Income,
		Amount: decimal.RequireFromString("900.50"),
		Title:  "Salary",
		Date:   time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC),
	}
	if _, err := repo.CreateTransaction(ctx, income); err != nil {
		t.Fatalf("create income: %v", err)
	}

	got, err := repo.ListTransactions(ctx, "u1", core.Expense, w)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("unexpected expense list: %+v", got)
	}
	if got[0].Amount.String() != "100" || got[0].Category != "Food" {
		t.Fatalf("round-trip mismatch: %+v", got[0])
	}

	incomes, err := repo.ListTransactions(ctx, "u1", core.Income, w)
	if err != nil {
		t.Fatalf("list incomes: %v", err)
	}
	if len(incomes) != 1 || incomes[0].Amount.String() != "900.5" || incomes[0].Title != "Salary" {
		t.Fatalf("unexpected income list: %+v", incomes)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	w, _ := core.NewMonthWindow(3, 2025)

	old, _ := repo.CreateTransaction(ctx, expenseTx("u1", "Food", 10, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	recent, _ := repo.CreateTransaction(ctx, expenseTx("u1", "Food", 20, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)))

	got, err := repo.ListTransactions(ctx, "u1", core.Expense, w)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != recent.ID || got[1].ID != old.ID {
		t.Fatalf("expected newest first, got %+v", got)
	}
}

func TestWindowBoundsInclusive(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	w, _ := core.NewMonthWindow(2, 2024)

	first, _ := repo.CreateTransaction(ctx, expenseTx("u1", "Food", 1, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	last, _ := repo.CreateTransaction(ctx, expenseTx("u1", "Food", 2, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)))
	repo.CreateTransaction(ctx, expenseTx("u1", "Food", 3, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	got, err := repo.ListTransactions(ctx, "u1", core.Expense, w)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both boundary rows, got %+v", got)
	}
	if got[0].ID != last.ID || got[1].ID != first.ID {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestDeleteTransactionEnforcesOwner(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, _ := repo.CreateTransaction(ctx, expenseTx("u1", "Food", 100, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))

	if err := repo.DeleteTransaction(ctx, "u2", core.Expense, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, "u1", core.Income, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong kind, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, "u1", core.Expense, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, "u1", core.Expense, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUpsertBudgetOverwritesLimitOnly(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.UpsertBudget(ctx, "u1", "Food", 3, 2025, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.AlertLevel != core.AlertSafe {
		t.Fatalf("new budget alert level = %s", first.AlertLevel)
	}

	if err := repo.SetBudgetAlertLevel(ctx, "u1", "Food", 3, 2025, core.AlertCritical); err != nil {
		t.Fatalf("set alert level: %v", err)
	}

	second, err := repo.UpsertBudget(ctx, "u1", "Food", 3, 2025, decimal.NewFromInt(800))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a duplicate: %s vs %s", second.ID, first.ID)
	}
	if second.Limit.String() != "800" {
		t.Fatalf("limit = %s", second.Limit)
	}
	// The cached alert level survives a limit change.
	if second.AlertLevel != core.AlertCritical {
		t.Fatalf("alert level = %s", second.AlertLevel)
	}

	all, err := repo.ListBudgets(ctx, "u1", 3, 2025)
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one budget, got %d", len(all))
	}
}

func TestListBudgetsScopedAndSorted(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	repo.UpsertBudget(ctx, "u1", "Travel", 3, 2025, decimal.NewFromInt(200))
	repo.UpsertBudget(ctx, "u1", "Food", 3, 2025, decimal.NewFromInt(500))
	repo.UpsertBudget(ctx, "u1", "Food", 4, 2025, decimal.NewFromInt(500))
	repo.UpsertBudget(ctx, "u2", "Food", 3, 2025, decimal.NewFromInt(500))

	got, err := repo.ListBudgets(ctx, "u1", 3, 2025)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Category != "Food" || got[1].Category != "Travel" {
		t.Fatalf("unexpected budgets: %+v", got)
	}
}

func TestSetBudgetAlertLevelNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.SetBudgetAlertLevel(context.Background(), "u1", "Food", 3, 2025, core.AlertSafe); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExportQueue(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, _ := repo.CreateTransaction(ctx, expenseTx("u1", "Food", 10, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	second, _ := repo.CreateTransaction(ctx, expenseTx("u1", "Travel", 20, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)))

	got, err := repo.GetExpense(ctx, first.ID)
	if err != nil {
		t.Fatalf("get expense: %v", err)
	}
	if got.Category != "Food" {
		t.Fatalf("unexpected expense: %+v", got)
	}
	if _, err := repo.GetExpense(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	pending, err := repo.ListPendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	if err := repo.MarkExported(ctx, first.ID); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	if err := repo.MarkExportError(ctx, second.ID); err != nil {
		t.Fatalf("mark export error: %v", err)
	}

	pending, err = repo.ListPendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("list pending after marks: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty pending queue, got %+v", pending)
	}

	if err := repo.MarkExported(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
