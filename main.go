package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/pharmacist-api/config"
	"github.com/giygas/pharmacist-api/data"
	"github.com/giygas/pharmacist-api/handlers"
	"github.com/giygas/pharmacist-api/health"
	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/inventory"
	"github.com/giygas/pharmacist-api/logging"
	"github.com/giygas/pharmacist-api/order"
	"github.com/giygas/pharmacist-api/prescriptionparser"
	"github.com/giygas/pharmacist-api/scheduler"
	"github.com/giygas/pharmacist-api/server"
	"github.com/giygas/pharmacist-api/validation"
	"github.com/joho/godotenv"
)

// backend is the inventory the API serves from, with its teardown
type backend struct {
	store      interfaces.InventoryStore
	staleAfter time.Duration
	close      func()
}

func main() {
	// A missing .env is fine, the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.Env, cfg.LogLevel, cfg.LogRetentionWeeks, cfg.MaxLogFileSize)
	defer func() {
		_ = logging.Close()
	}()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"inventory_source", cfg.InventorySource,
		"lookup_workers", cfg.LookupWorkers)

	validator := validation.NewDataValidator()

	inv, err := openBackend(cfg, validator)
	if err != nil {
		logging.Error("Failed to open inventory", "source", cfg.InventorySource, "error", err)
		_ = logging.Close()
		os.Exit(1)
	}
	defer inv.close()

	pipeline := order.NewPipeline(prescriptionparser.NewPrescriptionParser(), inv.store, cfg.LookupWorkers)
	healthChecker := health.NewHealthChecker(inv.store, inv.staleAfter)
	httpHandler := handlers.NewHTTPHandler(inv.store, pipeline, validator, healthChecker)

	srv := server.NewServer(cfg, httpHandler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
	}
}

// openBackend builds the configured inventory backend. The file and http
// sources load a snapshot and refresh it on a schedule, postgres is queried
// per request.
func openBackend(cfg *config.Config, validator interfaces.DataValidator) (*backend, error) {
	switch cfg.InventorySource {
	case config.InventorySourcePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := inventory.NewPool(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
		if err != nil {
			return nil, err
		}

		store := inventory.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}

		return &backend{store: store, close: pool.Close}, nil

	default:
		var loader interfaces.InventoryLoader = inventory.NewFileLoader(cfg.InventoryFile)
		if cfg.InventorySource == config.InventorySourceHTTP {
			loader = inventory.NewHTTPLoader(cfg.InventoryURL)
		}

		container := data.NewInventoryContainer()
		interval := time.Duration(cfg.InventoryRefreshMinutes) * time.Minute

		sched := scheduler.NewScheduler(container, loader, validator, interval)
		if err := sched.Start(); err != nil {
			return nil, err
		}

		return &backend{store: container, staleAfter: 2 * interval, close: sched.Stop}, nil
	}
}
