// Package storage provides the expense repository contract and its file,
// SQLite and Postgres implementations. The repository owns identity
// assignment and timestamping; business logic never branches on the
// storage technology behind the interface.
package storage

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"gastos/internal/core"
)

// ErrNotFound signals that no record exists for the requested id. Callers
// must distinguish it from genuine storage failures, which surface as any
// other error.
var ErrNotFound = errors.New("expense not found")

// Repository is the CRUD contract over persisted expenses.
//
// List returns expenses sorted by date descending; the order of records
// sharing a date is store-dependent. Create assigns a fresh unique id and
// sets createdAt == updatedAt. Patch merges the provided fields over the
// stored record and refreshes updatedAt. Remove reports whether a deletion
// occurred. Concurrent writers follow last-write-wins.
type Repository interface {
	List(ctx context.Context) ([]core.Expense, error)
	Create(ctx context.Context, in core.ExpenseInput) (core.Expense, error)
	Patch(ctx context.Context, id string, p core.ExpensePatch) (core.Expense, error)
	Remove(ctx context.Context, id string) (bool, error)
	Close() error
}

// newExpense builds the stored record for a validated input. Shared by all
// implementations so identity and timestamp semantics stay uniform.
func newExpense(in core.ExpenseInput, now time.Time) core.Expense {
	return core.Expense{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Category:  in.Category,
		Date:      in.Date,
		Amount:    in.Amount,
		Currency:  in.Currency,
		CreatedBy: in.CreatedBy,
		PaidBy:    in.PaidBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// sortByDateDesc orders lexicographically on the YYYY-MM-DD date, newest
// first. Stable so same-date records keep their store order.
func sortByDateDesc(expenses []core.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date > expenses[j].Date
	})
}
