// Package services orchestrates the tracker's use cases across the
// ledger store, the analytics engine, the voice parser and AMQP.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/voice"
)

// defaultCategory is assigned to expenses created without one.
const defaultCategory = "Other"

// ExpensePublisher notifies the background worker about new expenses.
type ExpensePublisher interface {
	PublishExpenseCreated(ctx context.Context, msg *amqp.ExpenseCreatedMessage) error
}

// Tracker is the application service behind the HTTP handlers. A nil
// publisher disables worker notifications; everything else keeps
// working, the cached budget alert levels just go stale until the next
// CheckAlerts call.
type Tracker struct {
	store     ledger.Store
	publisher ExpensePublisher
}

func NewTracker(store ledger.Store, publisher ExpensePublisher) *Tracker {
	return &Tracker{store: store, publisher: publisher}
}

// AddIncome records an income for owner. A zero date defaults to now.
func (t *Tracker) AddIncome(ctx context.Context, owner, title string, amount decimal.Decimal, date time.Time) (core.Transaction, error) {
	tx := core.Transaction{
		Owner:  owner,
		Kind:   core.Income,
		Amount: amount,
		Title:  title,
		Date:   normalizeDate(date),
	}
	created, err := t.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add income: %w", err)
	}
	return created, nil
}

// AddExpense records an expense and notifies the worker so it can
// refresh the owner's budget alerts and export the row. The publish is
// best-effort: a broker outage never fails the request.
func (t *Tracker) AddExpense(ctx context.Context, owner, title, category string, amount decimal.Decimal, date time.Time) (core.Transaction, error) {
	if category == "" {
		category = defaultCategory
	}
	tx := core.Transaction{
		Owner:    owner,
		Kind:     core.Expense,
		Amount:   amount,
		Category: category,
		Title:    title,
		Date:     normalizeDate(date),
	}
	created, err := t.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add expense: %w", err)
	}

	t.publishExpenseCreated(ctx, created)
	return created, nil
}

// AddVoiceExpense parses free-form text into an expense and records it.
func (t *Tracker) AddVoiceExpense(ctx context.Context, owner, text string, date time.Time) (core.Transaction, error) {
	parsed, err := voice.Parse(text)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse voice text: %w", err)
	}
	return t.AddExpense(ctx, owner, parsed.Title, parsed.Category, parsed.Amount, date)
}

func (t *Tracker) ListTransactions(ctx context.Context, owner string, kind core.TransactionKind, month, year int) ([]core.Transaction, error) {
	window, err := core.NewMonthWindow(month, year)
	if err != nil {
		return nil, err
	}
	return t.store.ListTransactions(ctx, owner, kind, window)
}

func (t *Tracker) DeleteTransaction(ctx context.Context, owner string, kind core.TransactionKind, id string) error {
	return t.store.DeleteTransaction(ctx, owner, kind, id)
}

// MonthlySummary aggregates one owner-month: totals, savings and
// per-category spending. Always recomputed from the stored records.
func (t *Tracker) MonthlySummary(ctx context.Context, owner string, month, year int) (analytics.AggregateResult, error) {
	window, incomes, expenses, err := t.loadMonth(ctx, owner, month, year)
	if err != nil {
		return analytics.AggregateResult{}, err
	}
	return analytics.Aggregate(window, incomes, expenses), nil
}

// SetBudget creates or replaces the limit for one category-month.
func (t *Tracker) SetBudget(ctx context.Context, owner, category string, month, year int, limit decimal.Decimal) (core.Budget, error) {
	if _, err := core.NewMonthWindow(month, year); err != nil {
		return core.Budget{}, err
	}
	return t.store.UpsertBudget(ctx, owner, category, month, year, limit)
}

// BudgetStatuses evaluates every budget for the month against actual
// spending, plus NO_BUDGET rows for unbudgeted spending.
func (t *Tracker) BudgetStatuses(ctx context.Context, owner string, month, year int) ([]analytics.BudgetStatus, error) {
	window, _, expenses, err := t.loadMonth(ctx, owner, month, year)
	if err != nil {
		return nil, err
	}
	budgets, err := t.store.ListBudgets(ctx, owner, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	agg := analytics.Aggregate(window, nil, expenses)
	return analytics.EvaluateBudgets(budgets, agg.PerCategory), nil
}

// CheckAlerts recomputes the month's budget statuses and persists any
// alert level that changed, so reads can serve the cached level without
// re-aggregating. Returns only the rows at WARNING or worse.
func (t *Tracker) CheckAlerts(ctx context.Context, owner string, month, year int) ([]analytics.BudgetStatus, error) {
	statuses, err := t.BudgetStatuses(ctx, owner, month, year)
	if err != nil {
		return nil, err
	}
	budgets, err := t.store.ListBudgets(ctx, owner, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	stored := make(map[string]core.AlertLevel, len(budgets))
	for _, b := range budgets {
		stored[b.Category] = b.AlertLevel
	}

	alerts := make([]analytics.BudgetStatus, 0)
	for _, s := range statuses {
		if s.AlertLevel == core.AlertNoBudget {
			continue
		}
		if level, ok := stored[s.Category]; ok && level != s.AlertLevel {
			if err := t.store.SetBudgetAlertLevel(ctx, owner, s.Category, month, year, s.AlertLevel); err != nil {
				slog.WarnContext(ctx, "Failed to persist alert level",
					"owner", owner,
					"category", s.Category,
					"level", s.AlertLevel,
					"error", err)
			}
		}
		if s.AlertLevel != core.AlertSafe {
			alerts = append(alerts, s)
		}
	}
	return alerts, nil
}

// Recommend runs the 50-30-20 analysis for one owner-month.
func (t *Tracker) Recommend(ctx context.Context, owner string, month, year int) (analytics.RecommendationResult, error) {
	window, incomes, expenses, err := t.loadMonth(ctx, owner, month, year)
	if err != nil {
		return analytics.RecommendationResult{}, err
	}
	return analytics.Recommend(window, incomes, expenses), nil
}

func (t *Tracker) loadMonth(ctx context.Context, owner string, month, year int) (core.MonthWindow, []core.Transaction, []core.Transaction, error) {
	window, err := core.NewMonthWindow(month, year)
	if err != nil {
		return core.MonthWindow{}, nil, nil, err
	}
	incomes, err := t.store.ListTransactions(ctx, owner, core.Income, window)
	if err != nil {
		return core.MonthWindow{}, nil, nil, fmt.Errorf("list incomes: %w", err)
	}
	expenses, err := t.store.ListTransactions(ctx, owner, core.Expense, window)
	if err != nil {
		return core.MonthWindow{}, nil, nil, fmt.Errorf("list expenses: %w", err)
	}
	return window, incomes, expenses, nil
}

func (t *Tracker) publishExpenseCreated(ctx context.Context, tx core.Transaction) {
	if t.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping expense created message")
		return
	}

	msg := amqp.NewExpenseCreatedMessage(tx.ID, tx.Owner, tx.Category, int(tx.Date.Month()), tx.Date.Year())
	if err := t.publisher.PublishExpenseCreated(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense created message",
			"id", tx.ID, "error", err)
	}
}

func normalizeDate(date time.Time) time.Time {
	if date.IsZero() {
		return time.Now().UTC()
	}
	return date.UTC()
}
