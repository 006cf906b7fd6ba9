// Package services wires validation, storage, conversion and aggregation
// into the operations exposed to the HTTP handlers.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"gastos/internal/core"
	"gastos/internal/events"
	"gastos/internal/storage"
)

// EventPublisher is the outbound port for lifecycle messages. Satisfied by
// *events.Client; nil disables publishing.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event events.EventType, expenseID string) error
}

// LedgerService orchestrates every ledger operation. It holds no mutable
// state between requests: the repository owns durable state, the rates
// table is immutable after construction.
type LedgerService struct {
	repo   storage.Repository
	rates  core.Rates
	events EventPublisher
}

func NewLedgerService(repo storage.Repository, rates core.Rates, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		repo:   repo,
		rates:  rates,
		events: publisher,
	}
}

// ListExpenses returns the ledger sorted by date descending, unconverted.
func (s *LedgerService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// ListWithConversion returns the ledger with each amount projected into all
// three currencies. Conversion happens on every read so the view always
// reflects the current rates table and stored amounts.
func (s *LedgerService) ListWithConversion(ctx context.Context) ([]core.ExpenseWithConversion, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return s.rates.WithConversion(expenses), nil
}

// CreateExpense validates the raw payload and persists a new record.
// Validation failures surface as core validation errors with no write.
func (s *LedgerService) CreateExpense(ctx context.Context, payload map[string]any) (core.Expense, error) {
	in, err := core.ValidateExpenseInput(payload)
	if err != nil {
		return core.Expense{}, err
	}

	expense, err := s.repo.Create(ctx, in)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.publish(ctx, events.ExpenseCreated, expense.ID)
	return expense, nil
}

// PatchExpense validates the partial payload and merges it over the stored
// record. Returns storage.ErrNotFound for unknown ids.
func (s *LedgerService) PatchExpense(ctx context.Context, id string, payload map[string]any) (core.Expense, error) {
	patch, err := core.ValidateExpensePatch(payload)
	if err != nil {
		return core.Expense{}, err
	}

	expense, err := s.repo.Patch(ctx, id, patch)
	if err != nil {
		return core.Expense{}, err
	}

	s.publish(ctx, events.ExpenseUpdated, expense.ID)
	return expense, nil
}

// DeleteExpense removes the record permanently. The boolean reports whether
// a deletion occurred; false means the id was unknown.
func (s *LedgerService) DeleteExpense(ctx context.Context, id string) (bool, error) {
	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	if removed {
		s.publish(ctx, events.ExpenseDeleted, id)
	}
	return removed, nil
}

// Summarize folds the filtered ledger view into grand totals and per-payer
// contribution buckets.
func (s *LedgerService) Summarize(ctx context.Context, filter core.Filter) (core.ContributionSummary, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return core.ContributionSummary{}, err
	}
	return core.Summarize(s.rates.WithConversion(filter.Apply(expenses))), nil
}

// publish sends a lifecycle event without ever failing the request; the
// record is already durable when this runs.
func (s *LedgerService) publish(ctx context.Context, event events.EventType, expenseID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, event, expenseID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"event", event,
			"expense_id", expenseID,
			"error", err)
	}
}

// Close releases the repository's resources.
func (s *LedgerService) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}
