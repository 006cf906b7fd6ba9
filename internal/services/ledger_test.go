package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/events"
	"gastos/internal/storage"
)

// memRepo is a minimal in-memory Repository for service tests.
type memRepo struct {
	items   []core.Expense
	failing bool
}

var errDiskOnFire = errors.New("disk on fire")

func (m *memRepo) List(ctx context.Context) ([]core.Expense, error) {
	if m.failing {
		return nil, errDiskOnFire
	}
	out := make([]core.Expense, len(m.items))
	copy(out, m.items)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Date > out[i].Date {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (m *memRepo) Create(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	if m.failing {
		return core.Expense{}, errDiskOnFire
	}
	now := time.Now().UTC()
	e := core.Expense{
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
	m.items = append(m.items, e)
	return e, nil
}

func (m *memRepo) Patch(ctx context.Context, id string, p core.ExpensePatch) (core.Expense, error) {
	if m.failing {
		return core.Expense{}, errDiskOnFire
	}
	for i := range m.items {
		if m.items[i].ID == id {
			p.Apply(&m.items[i])
			m.items[i].UpdatedAt = time.Now().UTC()
			return m.items[i], nil
		}
	}
	return core.Expense{}, storage.ErrNotFound
}

func (m *memRepo) Remove(ctx context.Context, id string) (bool, error) {
	if m.failing {
		return false, errDiskOnFire
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Close() error { return nil }

// recordingPublisher captures published events.
type recordingPublisher struct {
	published []events.EventType
	err       error
}

func (p *recordingPublisher) PublishExpenseEvent(ctx context.Context, event events.EventType, expenseID string) error {
	p.published = append(p.published, event)
	return p.err
}

func newTestService() (*LedgerService, *memRepo, *recordingPublisher) {
	repo := &memRepo{}
	pub := &recordingPublisher{}
	return NewLedgerService(repo, core.DefaultRates(), pub), repo, pub
}

func payload() map[string]any {
	return map[string]any{
		"title":     "Cena",
		"category":  "Food",
		"date":      "2026-01-05",
		"amount":    19.999,
		"currency":  "USD",
		"createdBy": "TEFI",
		"paidBy":    "SHARED",
	}
}

func TestCreateThenListIncludesOnce(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, payload())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 20.0, created.Amount, "amount rounded at ingestion")
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	expenses, err := svc.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, created.ID, expenses[0].ID)
	assert.Equal(t, []events.EventType{events.ExpenseCreated}, pub.published)
}

func TestCreateRejectsInvalidPayloadWithoutWrite(t *testing.T) {
	svc, repo, pub := newTestService()
	ctx := context.Background()

	bad := payload()
	bad["currency"] = "EUR"
	_, err := svc.CreateExpense(ctx, bad)
	require.ErrorIs(t, err, core.ErrInvalidCurrency)
	assert.True(t, core.IsValidationError(err))

	assert.Empty(t, repo.items, "rejected payload must not reach storage")
	assert.Empty(t, pub.published)
}

func TestPatchNonexistentLeavesStoreUnchanged(t *testing.T) {
	svc, repo, pub := newTestService()
	ctx := context.Background()

	_, err := svc.CreateExpense(ctx, payload())
	require.NoError(t, err)
	before := make([]core.Expense, len(repo.items))
	copy(before, repo.items)

	_, err = svc.PatchExpense(ctx, "missing-id", map[string]any{"amount": 50.0})
	require.ErrorIs(t, err, storage.ErrNotFound)
	assert.False(t, core.IsValidationError(err), "not-found is not a validation error")

	assert.Equal(t, before, repo.items, "failed patch must not change the store")
	assert.Equal(t, []events.EventType{events.ExpenseCreated}, pub.published)
}

func TestPatchMergesPartialFields(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, payload())
	require.NoError(t, err)

	updated, err := svc.PatchExpense(ctx, created.ID, map[string]any{
		"amount":   35.555,
		"currency": "BRL",
	})
	require.NoError(t, err)
	assert.Equal(t, 35.56, updated.Amount)
	assert.Equal(t, core.BRL, updated.Currency)
	assert.Equal(t, created.Title, updated.Title, "absent fields stay untouched")
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "createdAt immutable")
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	assert.Equal(t, []events.EventType{events.ExpenseCreated, events.ExpenseUpdated}, pub.published)
}

func TestPatchRejectsInvalidField(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, payload())
	require.NoError(t, err)

	_, err = svc.PatchExpense(ctx, created.ID, map[string]any{"amount": -1.0})
	require.ErrorIs(t, err, core.ErrInvalidAmount)

	expenses, err := svc.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, expenses[0].Amount, "rejected patch must not modify the record")
}

func TestDeleteTwice(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, payload())
	require.NoError(t, err)

	removed, err := svc.DeleteExpense(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.DeleteExpense(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete of the same id reports false")

	assert.Equal(t, []events.EventType{events.ExpenseCreated, events.ExpenseDeleted}, pub.published,
		"no event for a delete that removed nothing")
}

func TestListIdempotentWithoutWrites(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, date := range []string{"2026-01-10", "2026-01-20", "2026-01-05"} {
		p := payload()
		p["date"] = date
		_, err := svc.CreateExpense(ctx, p)
		require.NoError(t, err)
	}

	first, err := svc.ListExpenses(ctx)
	require.NoError(t, err)
	second, err := svc.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated reads with no writes return identical sequences")
	assert.Equal(t, "2026-01-20", first[0].Date)
}

func TestListWithConversion(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateExpense(ctx, payload())
	require.NoError(t, err)

	converted, err := svc.ListWithConversion(ctx)
	require.NoError(t, err)
	require.Len(t, converted, 1)
	assert.Equal(t, core.ConvertedAmount{USD: 20, BRL: 100, ARS: 28000}, converted[0].Converted)
}

func TestSummarizeFiltered(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	mk := func(date, paidBy string, amount float64) {
		p := payload()
		p["date"] = date
		p["paidBy"] = paidBy
		p["amount"] = amount
		_, err := svc.CreateExpense(ctx, p)
		require.NoError(t, err)
	}
	mk("2026-01-05", "TEFI", 20)   // in range
	mk("2026-01-10", "FACU", 20)   // in range
	mk("2026-03-01", "SHARED", 99) // out of range

	summary, err := svc.Summarize(ctx, core.Filter{From: "2026-01-01", To: "2026-01-31"})
	require.NoError(t, err)
	assert.Equal(t, core.ConvertedAmount{USD: 40, BRL: 200, ARS: 56000}, summary.Totals)
	assert.Equal(t, core.ConvertedAmount{USD: 20, BRL: 100, ARS: 28000}, summary.Contributions[core.PaidByTefi])
	assert.Equal(t, core.ConvertedAmount{}, summary.Contributions[core.PaidByShared])
}

func TestStorageFailureIsDistinctFromNotFound(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	repo.failing = true

	_, err := svc.ListExpenses(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.False(t, core.IsValidationError(err))

	_, err = svc.PatchExpense(ctx, "any", map[string]any{"amount": 5.0})
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	repo := &memRepo{}
	pub := &recordingPublisher{err: errors.New("broker unreachable")}
	svc := NewLedgerService(repo, core.DefaultRates(), pub)

	created, err := svc.CreateExpense(context.Background(), payload())
	require.NoError(t, err, "publish failures are logged, never surfaced")
	assert.NotEmpty(t, created.ID)
}

func TestNilPublisherIsAllowed(t *testing.T) {
	svc := NewLedgerService(&memRepo{}, core.DefaultRates(), nil)
	_, err := svc.CreateExpense(context.Background(), payload())
	require.NoError(t, err)
}
