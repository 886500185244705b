// cmd/resolver/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"loan-clarity-resolver/internal/api"
	"loan-clarity-resolver/internal/common/config"
	"loan-clarity-resolver/internal/common/database"
	"loan-clarity-resolver/internal/common/logger"
	"loan-clarity-resolver/internal/common/observability"
	"loan-clarity-resolver/internal/dialog"
	"loan-clarity-resolver/internal/gateway"
	"loan-clarity-resolver/internal/profile"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting loan clarity resolver...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("loan-clarity-resolver")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema setup failed", zap.Error(err))
	}

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Wire the resolver ---
	profiles := profile.NewPostgresStore(pg, log)
	pendingTTL := time.Duration(cfg.Dialog.PendingTTLMinutes) * time.Minute
	pending := dialog.NewRedisPendingStore(rdb, pendingTTL, log)
	gatewayClient := gateway.NewClient(cfg.Gateway, log)
	resolver := dialog.NewService(pending, profiles, gatewayClient, log)

	handler := api.NewHandler(resolver, log, pg, rdb)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during server shutdown", zap.Error(err))
	}

	zapLog.Info("Resolver stopped gracefully")
}
