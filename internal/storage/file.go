package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gastos/internal/core"
)

const dataFileName = "expenses.json"

// FileRepository keeps the whole ledger in a single JSON file under a data
// directory. Reads load the file, writes rewrite it whole; a mutex
// serializes access within the process. Plenty for a two-person trip.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	r := &FileRepository{path: filepath.Join(dataDir, dataFileName)}
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		if err := os.WriteFile(r.path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("seed data file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}

	return r, nil
}

func (r *FileRepository) List(ctx context.Context) ([]core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileRepository) Create(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expenses, err := r.load()
	if err != nil {
		return core.Expense{}, err
	}

	expense := newExpense(in, time.Now().UTC())
	expenses = append(expenses, expense)
	if err := r.save(expenses); err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense saved to file store",
		"id", expense.ID,
		"title", expense.Title,
		"amount", expense.Amount,
		"currency", expense.Currency)

	return expense, nil
}

func (r *FileRepository) Patch(ctx context.Context, id string, p core.ExpensePatch) (core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expenses, err := r.load()
	if err != nil {
		return core.Expense{}, err
	}

	for i := range expenses {
		if expenses[i].ID != id {
			continue
		}
		p.Apply(&expenses[i])
		expenses[i].UpdatedAt = time.Now().UTC()
		if err := r.save(expenses); err != nil {
			return core.Expense{}, err
		}
		return expenses[i], nil
	}

	return core.Expense{}, ErrNotFound
}

func (r *FileRepository) Remove(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expenses, err := r.load()
	if err != nil {
		return false, err
	}

	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(expenses) {
		return false, nil
	}

	if err := r.save(kept); err != nil {
		return false, err
	}

	slog.InfoContext(ctx, "Expense removed from file store", "id", id)
	return true, nil
}

func (r *FileRepository) Close() error { return nil }

func (r *FileRepository) load() ([]core.Expense, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var expenses []core.Expense
	if err := json.Unmarshal(raw, &expenses); err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}

	sortByDateDesc(expenses)
	return expenses, nil
}

func (r *FileRepository) save(expenses []core.Expense) error {
	raw, err := json.MarshalIndent(expenses, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}
