package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gastos/internal/core"
)

const postgresColumns = `id, title, category, date, amount, currency, created_by, paid_by, created_at, updated_at`

// PostgresRepository persists expenses in Postgres through a pgx pool.
// Same contract as the file and SQLite stores; selected at startup.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	if err := runPostgresMigrations(dsn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postgresColumns+` FROM expenses ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Title, &e.Category, &e.Date, &e.Amount,
			&e.Currency, &e.CreatedBy, &e.PaidBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

func (r *PostgresRepository) Create(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	expense := newExpense(in, time.Now().UTC())

	_, err := r.pool.Exec(ctx,
		`INSERT INTO expenses (`+postgresColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		expense.ID, expense.Title, expense.Category, expense.Date, expense.Amount,
		string(expense.Currency), string(expense.CreatedBy), string(expense.PaidBy),
		expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to Postgres",
		"id", expense.ID,
		"title", expense.Title,
		"amount", expense.Amount,
		"currency", expense.Currency)

	return expense, nil
}

func (r *PostgresRepository) Patch(ctx context.Context, id string, p core.ExpensePatch) (core.Expense, error) {
	var existing core.Expense
	err := r.pool.QueryRow(ctx,
		`SELECT `+postgresColumns+` FROM expenses WHERE id = $1`, id).
		Scan(&existing.ID, &existing.Title, &existing.Category, &existing.Date,
			&existing.Amount, &existing.Currency, &existing.CreatedBy,
			&existing.PaidBy, &existing.CreatedAt, &existing.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}

	p.Apply(&existing)
	existing.UpdatedAt = time.Now().UTC()

	_, err = r.pool.Exec(ctx,
		`UPDATE expenses
		 SET title = $1, category = $2, date = $3, amount = $4, currency = $5,
		     created_by = $6, paid_by = $7, updated_at = $8
		 WHERE id = $9`,
		existing.Title, existing.Category, existing.Date, existing.Amount,
		string(existing.Currency), string(existing.CreatedBy), string(existing.PaidBy),
		existing.UpdatedAt, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	return existing, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
