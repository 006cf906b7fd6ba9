package backend

import (
	"context"

	"gastos/internal/config"
	"gastos/internal/events"
	"gastos/internal/storage"
)

// BackendType represents the type of storage backend
type BackendType string

const (
	FileBackend     BackendType = "file"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{FileBackend, SQLiteBackend, PostgresBackend}
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the assembled storage and messaging pieces plus an
// optional cleanup function
type Result struct {
	Repository storage.Repository
	Events     *events.Client
	Cleanup    CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, cfg *config.Config) (*Result, error)
}
