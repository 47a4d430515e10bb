// Package worker consumes expense-created messages: it refreshes the
// owner's cached budget alert levels and exports the expense row to
// Google Sheets. A periodic sweep over unexported rows backstops lost
// messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// ExportStore is the slice of the SQLite repository the worker needs.
type ExportStore interface {
	GetExpense(ctx context.Context, id string) (core.Transaction, error)
	ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkExported(ctx context.Context, id string) error
	MarkExportError(ctx context.Context, id string) error
}

// AlertChecker recomputes and persists budget alert levels for one
// owner-month. Implemented by services.Tracker.
type AlertChecker interface {
	CheckAlerts(ctx context.Context, owner string, month, year int) ([]analytics.BudgetStatus, error)
}

// RowWriter matches export.RowWriter; redeclared here so the worker can
// be tested without the Sheets client.
type RowWriter interface {
	AppendExpense(ctx context.Context, tx core.Transaction) (string, error)
}

// AlertWorker processes one message at a time. A nil exporter disables
// the Sheets export but alert refreshing still runs.
type AlertWorker struct {
	store     ExportStore
	alerts    AlertChecker
	exporter  RowWriter
	batchSize int
}

func NewAlertWorker(store ExportStore, alerts AlertChecker, exporter RowWriter, batchSize int) *AlertWorker {
	return &AlertWorker{
		store:     store,
		alerts:    alerts,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleExpenseCreated refreshes the owner's alert levels and exports
// the new expense. An export failure returns an error so the delivery
// is requeued; the alert refresh is best-effort because the next
// message or status read recomputes it anyway.
func (w *AlertWorker) HandleExpenseCreated(ctx context.Context, msg *amqp.ExpenseCreatedMessage) error {
	slog.InfoContext(ctx, "Processing expense created message",
		"id", msg.ID,
		"owner", msg.Owner,
		"month", msg.Month,
		"year", msg.Year)

	alerts, err := w.alerts.CheckAlerts(ctx, msg.Owner, msg.Month, msg.Year)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to refresh budget alerts",
			"owner", msg.Owner, "error", err)
	} else {
		for _, a := range alerts {
			slog.WarnContext(ctx, "Budget alert",
				"owner", msg.Owner,
				"category", a.Category,
				"level", a.AlertLevel,
				"percentage_used", a.PercentageUsed)
		}
	}

	expense, err := w.store.GetExpense(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get expense %s: %w", msg.ID, err)
	}

	return w.exportExpense(ctx, expense)
}

// ProcessPendingExports sweeps expenses that never made it to Sheets.
// Runs at startup and on a timer as a backup for lost messages.
func (w *AlertWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.store.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, expense := range pending {
		if err := w.exportExpense(ctx, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending expense",
				"id", expense.ID, "error", err)
		}
	}
	return nil
}

func (w *AlertWorker) exportExpense(ctx context.Context, expense core.Transaction) error {
	if w.exporter == nil {
		slog.DebugContext(ctx, "No exporter configured, skipping export", "id", expense.ID)
		return nil
	}

	ref, err := w.exporter.AppendExpense(ctx, expense)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, expense.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error",
				"id", expense.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.store.MarkExported(ctx, expense.ID); err != nil {
		// The export itself succeeded, so the delivery is still acked.
		slog.ErrorContext(ctx, "Failed to mark as exported",
			"id", expense.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported expense",
		"id", expense.ID,
		"sheets_ref", ref)
	return nil
}
