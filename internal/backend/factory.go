package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gastos/internal/config"
	"gastos/internal/events"
	"gastos/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	backendType := BackendType(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	repo, err := f.createRepository(ctx, backendType, cfg)
	if err != nil {
		return nil, err
	}

	// AMQP is optional, the service degrades to not publishing events
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			eventsClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	cleanup := func() error {
		var errs []error
		if eventsClient != nil {
			errs = append(errs, eventsClient.Close())
		}
		errs = append(errs, repo.Close())
		return errors.Join(errs...)
	}

	return &Result{
		Repository: repo,
		Events:     eventsClient,
		Cleanup:    cleanup,
	}, nil
}

func (f *DefaultFactory) createRepository(ctx context.Context, backendType BackendType, cfg *config.Config) (storage.Repository, error) {
	switch backendType {
	case FileBackend:
		repo, err := storage.NewFileRepository(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file repository: %w", err)
		}
		f.logger.Info("Initialized file backend", "data_dir", cfg.DataDir)
		return repo, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, nil

	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.Info("Initialized Postgres backend")
		return repo, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", backendType)
	}
}
