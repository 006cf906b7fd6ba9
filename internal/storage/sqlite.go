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

	"gastos/internal/core"

	_ "modernc.org/sqlite"
)

const sqliteColumns = `id, title, category, date, amount, currency, created_by, paid_by, created_at, updated_at`

// SQLiteRepository persists expenses in a local SQLite database. Schema is
// managed through embedded migrations run at startup.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
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

	if err := runSQLiteMigrations(dbPath); err != nil {
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

func (r *SQLiteRepository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM expenses ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	expense := newExpense(in, time.Now().UTC())

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (`+sqliteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Title, expense.Category, expense.Date, expense.Amount,
		string(expense.Currency), string(expense.CreatedBy), string(expense.PaidBy),
		expense.CreatedAt.Format(time.RFC3339Nano), expense.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", expense.ID,
		"title", expense.Title,
		"amount", expense.Amount,
		"currency", expense.Currency)

	return expense, nil
}

func (r *SQLiteRepository) Patch(ctx context.Context, id string, p core.ExpensePatch) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM expenses WHERE id = ?`, id)
	existing, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}

	p.Apply(&existing)
	existing.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET title = ?, category = ?, date = ?, amount = ?, currency = ?,
		     created_by = ?, paid_by = ?, updated_at = ?
		 WHERE id = ?`,
		existing.Title, existing.Category, existing.Date, existing.Amount,
		string(existing.Currency), string(existing.CreatedBy), string(existing.PaidBy),
		existing.UpdatedAt.Format(time.RFC3339Nano), id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	return existing, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e                    core.Expense
		currency             string
		createdBy, paidBy    string
		createdAt, updatedAt string
	)
	err := row.Scan(&e.ID, &e.Title, &e.Category, &e.Date, &e.Amount,
		&currency, &createdBy, &paidBy, &createdAt, &updatedAt)
	if err != nil {
		return core.Expense{}, err
	}

	e.Currency = core.Currency(currency)
	e.CreatedBy = core.Person(createdBy)
	e.PaidBy = core.PaidBy(paidBy)
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return core.Expense{}, fmt.Errorf("parse created_at: %w", err)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return core.Expense{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return e, nil
}
