// Package storage is the SQLite persistence layer. Amounts are stored
// as decimal strings, never floats, and dates as RFC 3339 UTC text so
// lexicographic range scans match chronological order.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Export statuses for the expenses.export_status column.
const (
	exportPending = "pending"
	exportSynced  = "synced"
	exportError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.Date = tx.Date.UTC()

	var err error
	switch tx.Kind {
	case core.Income:
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO incomes (id, owner, title, amount, date) VALUES (?, ?, ?, ?, ?)`,
			tx.ID, tx.Owner, tx.Title, tx.Amount.String(), tx.Date.Format(time.RFC3339))
	case core.Expense:
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO expenses (id, owner, category, title, amount, date) VALUES (?, ?, ?, ?, ?, ?)`,
			tx.ID, tx.Owner, tx.Category, tx.Title, tx.Amount.String(), tx.Date.Format(time.RFC3339))
	default:
		return core.Transaction{}, core.ErrInvalidKind
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert %s: %w", tx.Kind, err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"kind", tx.Kind,
		"owner", tx.Owner,
		"amount", tx.Amount.String())
	return tx, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, owner string, kind core.TransactionKind, window core.MonthWindow) ([]core.Transaction, error) {
	var query string
	switch kind {
	case core.Income:
		query = `SELECT id, owner, '' AS category, title, amount, date FROM incomes
			WHERE owner = ? AND date >= ? AND date <= ?
			ORDER BY date DESC, id ASC`
	case core.Expense:
		query = `SELECT id, owner, category, title, amount, date FROM expenses
			WHERE owner = ? AND date >= ? AND date <= ?
			ORDER BY date DESC, id ASC`
	default:
		return nil, core.ErrInvalidKind
	}

	rows, err := r.db.QueryContext(ctx, query,
		owner, window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind, err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %ss: %w", kind, err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, owner string, kind core.TransactionKind, id string) error {
	var query string
	switch kind {
	case core.Income:
		query = `DELETE FROM incomes WHERE id = ? AND owner = ?`
	case core.Expense:
		query = `DELETE FROM expenses WHERE id = ? AND owner = ?`
	default:
		return core.ErrInvalidKind
	}

	res, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// UpsertBudget inserts or replaces the limit for one (owner, category,
// month, year) key. The ON CONFLICT clause keeps the operation atomic:
// concurrent upserts for the same key settle on a single row, and the
// cached alert level is left untouched by a limit change.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, owner, category string, month, year int, limit decimal.Decimal) (core.Budget, error) {
	b := core.Budget{
		ID:         uuid.NewString(),
		Owner:      owner,
		Category:   category,
		Limit:      limit,
		Month:      month,
		Year:       year,
		AlertLevel: core.AlertSafe,
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("validate budget: %w", err)
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO budgets (id, owner, category, month, year, limit_amount)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner, category, month, year)
		DO UPDATE SET limit_amount = excluded.limit_amount, updated_at = CURRENT_TIMESTAMP
		RETURNING id, owner, category, month, year, limit_amount, alert_level`,
		b.ID, b.Owner, b.Category, b.Month, b.Year, b.Limit.String())

	stored, err := scanBudget(row)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	return stored, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, owner string, month, year int) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, category, month, year, limit_amount, alert_level FROM budgets
		WHERE owner = ? AND month = ? AND year = ?
		ORDER BY category ASC`,
		owner, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := make([]core.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) SetBudgetAlertLevel(ctx context.Context, owner, category string, month, year int, level core.AlertLevel) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET alert_level = ?, updated_at = CURRENT_TIMESTAMP
		WHERE owner = ? AND category = ? AND month = ? AND year = ?`,
		string(level), owner, category, month, year)
	if err != nil {
		return fmt.Errorf("set alert level: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// GetExpense retrieves a single expense by id, regardless of export
// state. Used by the worker when it handles an expense-created message.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner, category, title, amount, date FROM expenses WHERE id = ?`, id)
	tx, err := scanTransaction(row, core.Expense)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, core.ErrNotFound
		}
		return core.Transaction{}, err
	}
	return tx, nil
}

// ListPendingExport returns up to limit expenses that have not been
// exported yet, oldest first. The worker sweeps these as a backstop for
// messages lost between publish and consume.
func (r *SQLiteRepository) ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, category, title, amount, date FROM expenses
		WHERE export_status = ?
		ORDER BY created_at ASC
		LIMIT ?`,
		exportPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows, core.Expense)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending export: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id string) error {
	return r.setExportStatus(ctx, id, exportSynced)
}

func (r *SQLiteRepository) MarkExportError(ctx context.Context, id string) error {
	return r.setExportStatus(ctx, id, exportError)
}

func (r *SQLiteRepository) setExportStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET export_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set export status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner, kind core.TransactionKind) (core.Transaction, error) {
	var (
		tx          core.Transaction
		amount, day string
	)
	if err := row.Scan(&tx.ID, &tx.Owner, &tx.Category, &tx.Title, &amount, &day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Kind = kind

	var err error
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	if tx.Date, err = time.Parse(time.RFC3339, day); err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", day, err)
	}
	return tx, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b            core.Budget
		limit, level string
	)
	if err := row.Scan(&b.ID, &b.Owner, &b.Category, &b.Month, &b.Year, &limit, &level); err != nil {
		return core.Budget{}, err
	}

	var err error
	if b.Limit, err = decimal.NewFromString(limit); err != nil {
		return core.Budget{}, fmt.Errorf("parse stored limit %q: %w", limit, err)
	}
	b.AlertLevel = core.AlertLevel(level)
	return b, nil
}
