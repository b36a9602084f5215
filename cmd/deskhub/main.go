package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ofarouk/deskhub/internal/api"
	"github.com/ofarouk/deskhub/internal/config"
	"github.com/ofarouk/deskhub/internal/domain/customer"
	"github.com/ofarouk/deskhub/internal/domain/inventory"
	"github.com/ofarouk/deskhub/internal/domain/invoice"
	"github.com/ofarouk/deskhub/internal/domain/report"
	"github.com/ofarouk/deskhub/internal/domain/resource"
	"github.com/ofarouk/deskhub/internal/domain/session"
	"github.com/ofarouk/deskhub/internal/domain/settings"
	"github.com/ofarouk/deskhub/internal/domain/subscription"
	"github.com/ofarouk/deskhub/internal/sqlite"
	"github.com/ofarouk/deskhub/internal/sweep"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	customerRepo := sqlite.NewCustomerRepository(db)
	resourceRepo := sqlite.NewResourceRepository(db)
	inventoryRepo := sqlite.NewInventoryRepository(db)
	subscriptionRepo := sqlite.NewSubscriptionRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	invoiceRepo := sqlite.NewInvoiceRepository(db)
	settingsRepo := sqlite.NewSettingsRepository(db)
	reportRepo := sqlite.NewReportRepository(db)

	customerSvc := customer.NewService(db, customerRepo, logger)
	resourceSvc := resource.NewService(db, resourceRepo, logger)
	inventorySvc := inventory.NewService(db, inventoryRepo, logger)
	subscriptionSvc := subscription.NewService(db, subscriptionRepo, customerRepo, logger)
	invoiceSvc := invoice.NewService(db, invoiceRepo, customerRepo, logger)
	sessionSvc := session.NewService(db, sessionRepo, resourceRepo, inventoryRepo,
		subscriptionRepo, customerRepo, invoiceSvc, logger)
	settingsSvc := settings.NewService(settingsRepo, logger)
	reportSvc := report.NewService(reportRepo)

	server := api.New(api.Services{
		Customers:     customerSvc,
		Resources:     resourceSvc,
		Inventory:     inventorySvc,
		Subscriptions: subscriptionSvc,
		Sessions:      sessionSvc,
		Invoices:      invoiceSvc,
		Settings:      settingsSvc,
		Reports:       reportSvc,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := sweep.New(sessionSvc, subscriptionSvc, cfg.Sweep.Interval, cfg.Sweep.MaxSessionAge, logger)
	go sweeper.Run(ctx)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer, cancel)
}

func waitForShutdown(logger *slog.Logger, server *http.Server, cancel context.CancelFunc) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
