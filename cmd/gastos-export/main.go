// Command gastos-export writes the current ledger, with conversions, to the
// configured Google Spreadsheet.
package main

import (
	"context"
	"os"
	"time"

	"gastos/internal/backend"
	"gastos/internal/cli"
	"gastos/internal/core"
	"gastos/internal/export"
	"gastos/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	if err := cfg.ValidateExport(); err != nil {
		logger.Error("Export configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}()

	ledger := services.NewLedgerService(result.Repository, core.DefaultRates(), nil)

	expenses, err := ledger.ListWithConversion(ctx)
	if err != nil {
		logger.Error("Failed to list expenses", "error", err)
		os.Exit(1)
	}

	exporter, err := export.NewSheetsExporter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize exporter", "error", err)
		os.Exit(1)
	}

	if err := exporter.Export(ctx, expenses); err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Export finished", "rows", len(expenses))
}
