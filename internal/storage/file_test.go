package storage

import (
	"context"
	"errors"
	"testing"

	"gastos/internal/core"
)

func testInput(title, date string) core.ExpenseInput {
	return core.ExpenseInput{
		Title:     title,
		Category:  "Food",
		Date:      date,
		Amount:    20,
		Currency:  core.USD,
		CreatedBy: core.Tefi,
		PaidBy:    core.PaidByShared,
	}
}

func newTestFileRepo(t *testing.T) *FileRepository {
	t.Helper()
	repo, err := NewFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	return repo
}

func TestFileRepositoryCreateAndList(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testInput("Cena", "2026-01-05"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("repository must assign an id")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("createdAt (%v) must equal updatedAt (%v) on creation", created.CreatedAt, created.UpdatedAt)
	}

	expenses, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected exactly one expense, got %d", len(expenses))
	}
	if expenses[0].ID != created.ID || expenses[0].Title != "Cena" {
		t.Fatalf("listed record does not match created one: %+v", expenses[0])
	}
}

func TestFileRepositoryUniqueIDs(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		e, err := repo.Create(ctx, testInput("Cena", "2026-01-05"))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[e.ID] {
			t.Fatalf("id %q reused", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestFileRepositoryListSortedByDateDesc(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	for _, date := range []string{"2026-01-10", "2026-01-20", "2026-01-05"} {
		if _, err := repo.Create(ctx, testInput("Gasto", date)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	expenses, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"2026-01-20", "2026-01-10", "2026-01-05"}
	for i, date := range want {
		if expenses[i].Date != date {
			t.Fatalf("position %d: got %s, want %s", i, expenses[i].Date, date)
		}
	}
}

func TestFileRepositoryPatch(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testInput("Cena", "2026-01-05"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "Almuerzo"
	amount := 33.33
	updated, err := repo.Patch(ctx, created.ID, core.ExpensePatch{Title: &title, Amount: &amount})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if updated.Title != "Almuerzo" || updated.Amount != 33.33 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Category != "Food" || updated.Date != "2026-01-05" {
		t.Fatalf("absent fields must stay untouched: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("createdAt must be immutable")
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatal("updatedAt must be refreshed on patch")
	}
}

func TestFileRepositoryPatchNotFoundLeavesStoreUnchanged(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testInput("Cena", "2026-01-05"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "Nada"
	_, err = repo.Patch(ctx, "missing-id", core.ExpensePatch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	expenses, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(expenses) != 1 || expenses[0] != created {
		t.Fatalf("store changed by failed patch: %+v", expenses)
	}
}

func TestFileRepositoryRemoveTwice(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testInput("Cena", "2026-01-05"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := repo.Remove(ctx, created.ID)
	if err != nil || !removed {
		t.Fatalf("first Remove = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = repo.Remove(ctx, created.ID)
	if err != nil || removed {
		t.Fatalf("second Remove = (%v, %v), want (false, nil)", removed, err)
	}

	expenses, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expected empty ledger after delete, got %d records", len(expenses))
	}
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	// The JSON on disk is the storage contract; a second repository over the
	// same directory must see identical records.
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileRepository(dir)
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	created, err := first.Create(ctx, testInput("Cena", "2026-01-05"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	second, err := NewFileRepository(dir)
	if err != nil {
		t.Fatalf("NewFileRepository (reopen): %v", err)
	}
	expenses, err := second.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected 1 expense after reopen, got %d", len(expenses))
	}
	got := expenses[0]
	if got.ID != created.ID || got.Amount != created.Amount ||
		got.Currency != created.Currency || got.PaidBy != created.PaidBy {
		t.Fatalf("record did not round-trip: got %+v, want %+v", got, created)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) || !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("timestamps did not round-trip: got %+v, want %+v", got, created)
	}
}
