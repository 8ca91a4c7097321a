package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kwasiobeng/mini-ledger/internal/config"
	"github.com/kwasiobeng/mini-ledger/internal/handler"
	"github.com/kwasiobeng/mini-ledger/internal/logging"
	"github.com/kwasiobeng/mini-ledger/internal/middleware"
	"github.com/kwasiobeng/mini-ledger/internal/repository"
	"github.com/kwasiobeng/mini-ledger/internal/service"
	"github.com/kwasiobeng/mini-ledger/internal/service/transfer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("mini-ledger", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	customerRepo := repository.NewCustomerRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go cleanIdempotencyCache(janitorCtx, idempotencyRepo)

	customerSvc := service.NewCustomerService(customerRepo)
	accountSvc := service.NewAccountService(accountRepo, customerRepo, transferRepo)
	engine := transfer.NewService(accountRepo, transferRepo, db, cfg.TransferTimeout())

	customerHandler := handler.NewCustomerHandler(customerSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	transferHandler := handler.NewTransferHandler(engine, transferRepo)
	healthHandler := handler.NewHealthHandler(db)

	idempotent := middleware.Idempotency(idempotencyRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/v1/customers", customerHandler.Create)
	mux.HandleFunc("GET /api/v1/customers/{id}", customerHandler.Get)
	mux.HandleFunc("POST /api/v1/accounts", accountHandler.Create)
	mux.HandleFunc("GET /api/v1/accounts/{id}/balance", accountHandler.GetBalance)
	mux.HandleFunc("GET /api/v1/accounts/{id}/transfers", accountHandler.GetHistory)
	mux.Handle("POST /api/v1/transfers", idempotent(http.HandlerFunc(transferHandler.Create)))
	mux.HandleFunc("GET /api/v1/transfers/{id}", transferHandler.Get)

	root := middleware.RequestID(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// cleanIdempotencyCache sweeps expired idempotency entries once an hour so
// the cache table does not grow without bound.
func cleanIdempotencyCache(ctx context.Context, repo *repository.IdempotencyRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.CleanExpired(ctx)
			if err != nil {
				slog.Error("idempotency cache cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("idempotency cache cleaned", "removed", n)
			}
		}
	}
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var lastErr error
	for i := range 30 {
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		if err == nil {
			return db, nil
		}
		lastErr = err
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", lastErr)
}
