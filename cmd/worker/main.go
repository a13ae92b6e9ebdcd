package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales_quotation_backend/internal/quotations"
	"sales_quotation_backend/internal/quotations/pricing"
	"sales_quotation_backend/internal/quotations/snapshot"
	"sales_quotation_backend/internal/scheduler"
	"sales_quotation_backend/platform/config"
	"sales_quotation_backend/platform/db"
	"sales_quotation_backend/platform/lock"
	"sales_quotation_backend/platform/logger"
	"sales_quotation_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting recalculation worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	if err := withRetry(ctx, log, "database migrations", 3, time.Second, func() error {
		return db.RunMigrations(ctx, cfg, pool, log)
	}); err != nil {
		log.Error("failed to run migrations", "error", err)
		panic("failed to run migrations: " + err.Error())
	}

	rates, err := pricing.LoadRates(cfg.GetPricingRatesFile())
	if err != nil {
		log.Error("failed to load pricing rates", "file", cfg.GetPricingRatesFile(), "error", err)
		panic("failed to load pricing rates: " + err.Error())
	}

	locker, err := lock.NewRedisLocker(cfg)
	if err != nil {
		log.Error("failed to initialize calculation lock", "error", err)
		panic("failed to initialize calculation lock: " + err.Error())
	}
	defer func() { _ = locker.Close() }()

	archive, err := snapshot.NewArchive(cfg)
	if err != nil {
		log.Error("failed to initialize snapshot archive", "error", err)
		panic("failed to initialize snapshot archive: " + err.Error())
	}
	if archive != nil {
		if err := withRetry(ctx, log, "snapshot bucket", 3, time.Second, func() error {
			return archive.EnsureBucket(ctx)
		}); err != nil {
			log.Error("failed to ensure snapshot bucket", "bucket", cfg.GetMinioBucketCalculationSnapshots(), "error", err)
			panic("failed to ensure snapshot bucket: " + err.Error())
		}
	} else {
		log.Info("snapshot archive disabled")
	}

	quotationsModule := quotations.NewModule(pool, rates, locker, archive, validator.New(), log)

	worker, err := scheduler.NewWorker(cfg, quotationsModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize recalculation worker", "error", err)
		panic("failed to initialize recalculation worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("recalculation worker stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
