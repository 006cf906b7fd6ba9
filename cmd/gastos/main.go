package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"gastos/internal/auth"
	"gastos/internal/backend"
	"gastos/internal/cli"
	"gastos/internal/core"
	apphttp "gastos/internal/http"
	"gastos/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	var publisher services.EventPublisher
	if result.Events != nil {
		publisher = result.Events
	}
	ledger := services.NewLedgerService(result.Repository, core.DefaultRates(), publisher)
	authenticator := auth.NewAuthenticator(cfg.AuthUsername, cfg.AuthPasswordHash, cfg.AuthDisplayName)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, authenticator, []byte(cfg.AuthSecret), cfg.SessionTTL)

	// Server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting gastos server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
