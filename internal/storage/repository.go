// Package storage is the SQLite backend. It implements every ledger
// repository port over a single database file.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"financas/internal/core"
	"financas/internal/ledger"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

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

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, type, category, tx_date
		FROM transactions
		ORDER BY tx_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, description, amount_cents, type, category, tx_date
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = ledger.NewID()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, description, amount_cents, type, category, tx_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Description, t.Amount.Cents, string(t.Type), t.Category, t.Date.Format(dateLayout))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", string(t.Type),
		"amount_cents", t.Amount.Cents,
		"category", t.Category)

	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, amount_cents = ?, type = ?, category = ?, tx_date = ?
		WHERE id = ?`,
		t.Description, t.Amount.Cents, string(t.Type), t.Category, t.Date.Format(dateLayout), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, color, icon, is_default
		FROM categories
		ORDER BY is_default DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		if err := rows.Scan(&c.ID, &c.Name, &typ, &c.Color, &c.Icon, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.ID = ledger.NewID()
	c.IsDefault = false
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, type, color, icon, is_default)
		VALUES (?, ?, ?, ?, ?, 0)`,
		c.ID, c.Name, string(c.Type), c.Color, c.Icon)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, core.ErrDuplicateCategory
		}
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, type = ?, color = ?, icon = ?
		WHERE id = ?`,
		c.Name, string(c.Type), c.Color, c.Icon, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateCategory
		}
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	var isDefault bool
	err := r.db.QueryRowContext(ctx, `SELECT is_default FROM categories WHERE id = ?`, id).Scan(&isDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if isDefault {
		return core.ErrDefaultCategory
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, current_cents, target_cents, kind, color, icon, start_date, deadline, description, finalized
		FROM goals
		ORDER BY start_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, current_cents, target_cents, kind, color, icon, start_date, deadline, description, finalized
		FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	return g, err
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	g.ID = ledger.NewID()
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		g.Finalized = true
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, name, current_cents, target_cents, kind, color, icon, start_date, deadline, description, finalized)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.CurrentAmount.Cents, g.TargetAmount.Cents, g.Kind, g.Color, g.Icon,
		g.StartDate.Format(dateLayout), deadlineValue(g), g.Description, g.Finalized)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	// finalized = MAX(...) keeps the flag monotonic at the storage level.
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET name = ?, current_cents = ?, target_cents = ?, kind = ?, color = ?, icon = ?,
		    start_date = ?, deadline = ?, description = ?, finalized = MAX(finalized, ?)
		WHERE id = ?`,
		g.Name, g.CurrentAmount.Cents, g.TargetAmount.Cents, g.Kind, g.Color, g.Icon,
		g.StartDate.Format(dateLayout), deadlineValue(g), g.Description, g.Finalized, g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListReports(ctx context.Context) ([]core.ReportItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, title, description, category, severity, created_at, is_read
		FROM reports
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []core.ReportItem
	for rows.Next() {
		var item core.ReportItem
		var typ, createdAt string
		if err := rows.Scan(&item.ID, &typ, &item.Title, &item.Description, &item.Category, &item.Severity, &createdAt, &item.IsRead); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		item.Type = core.ReportType(typ)
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			item.CreatedAt = ts
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateReport(ctx context.Context, item core.ReportItem) error {
	if item.ID == "" {
		item.ID = ledger.NewID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	// INSERT OR IGNORE keeps deterministic re-emits from the worker idempotent.
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO reports (id, type, title, description, category, severity, created_at, is_read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, string(item.Type), item.Title, item.Description, item.Category, item.Severity,
		item.CreatedAt.UTC().Format(time.RFC3339), item.IsRead)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkReportRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reports SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark report read: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteReport(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var typ, date string
	if err := row.Scan(&t.ID, &t.Description, &t.Amount.Cents, &typ, &t.Category, &date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Type = core.TransactionType(typ)
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	t.Date = d
	return t, nil
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var g core.Goal
	var start string
	var deadline sql.NullString
	if err := row.Scan(&g.ID, &g.Name, &g.CurrentAmount.Cents, &g.TargetAmount.Cents, &g.Kind,
		&g.Color, &g.Icon, &start, &deadline, &g.Description, &g.Finalized); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Goal{}, err
		}
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	d, err := core.ParseDate(start)
	if err != nil {
		return core.Goal{}, fmt.Errorf("parse stored start date %q: %w", start, err)
	}
	g.StartDate = d
	if deadline.Valid && deadline.String != "" {
		dl, err := core.ParseDate(deadline.String)
		if err != nil {
			return core.Goal{}, fmt.Errorf("parse stored deadline %q: %w", deadline.String, err)
		}
		g.Deadline = dl
	}
	return g, nil
}

func deadlineValue(g core.Goal) any {
	if g.Deadline.IsZero() {
		return nil
	}
	return g.Deadline.Format(dateLayout)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
