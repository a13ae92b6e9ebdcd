package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"sales_quotation_backend/internal/quotations"
	"sales_quotation_backend/internal/quotations/pricing"
	"sales_quotation_backend/internal/quotations/snapshot"
	"sales_quotation_backend/internal/scheduler"
	"sales_quotation_backend/platform/config"
	"sales_quotation_backend/platform/db"
	"sales_quotation_backend/platform/lock"
	"sales_quotation_backend/platform/logger"
	"sales_quotation_backend/platform/validator"

	"golang.org/x/time/rate"
)

func main() {
	all := flag.Bool("all", false, "recalculate every quotation")
	enqueue := flag.Bool("enqueue", false, "queue recalculation tasks for the worker instead of calculating inline")
	reason := flag.String("reason", scheduler.ReasonBackfill, "reason recorded on queued tasks")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: recalculate [-enqueue] [-reason r] (-all | id...)\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ids, err := parseIDs(flag.Args())
	if err != nil || (*all == (len(ids) > 0)) {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting quotation recalculation backfill", "all", *all, "enqueue", *enqueue)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	rates, err := pricing.LoadRates(cfg.GetPricingRatesFile())
	if err != nil {
		log.Error("failed to load pricing rates", "error", err)
		panic("failed to load pricing rates: " + err.Error())
	}

	var locker lock.Locker
	if cfg.GetRedisURL() != "" {
		redisLocker, err := lock.NewRedisLocker(cfg)
		if err != nil {
			log.Error("failed to initialize calculation lock", "error", err)
			panic("failed to initialize calculation lock: " + err.Error())
		}
		defer func() { _ = redisLocker.Close() }()
		locker = redisLocker
	} else {
		log.Warn("REDIS_URL not set, recalculating without the calculation lock")
	}

	archive, err := snapshot.NewArchive(cfg)
	if err != nil {
		log.Error("failed to initialize snapshot archive", "error", err)
		panic("failed to initialize snapshot archive: " + err.Error())
	}

	quotationsModule := quotations.NewModule(pool, rates, locker, archive, validator.New(), log)

	if *all {
		ids, err = quotationsModule.Repository().ListQuotationIDs(ctx)
		if err != nil {
			log.Error("failed to list quotations", "error", err)
			return
		}
	}
	if len(ids) == 0 {
		log.Info("no quotations to recalculate")
		return
	}

	recalc := func(ctx context.Context, id int64) error {
		_, err := quotationsModule.Service().Recalculate(ctx, id)
		return err
	}
	if *enqueue {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer func() { _ = client.Close() }()
		recalc = func(ctx context.Context, id int64) error {
			return client.EnqueueRecalculation(ctx, id, *reason)
		}
	}

	limit := rate.Limit(cfg.GetRecalcRatePerSecond())
	if limit <= 0 {
		limit = rate.Inf
	}
	limiter := rate.NewLimiter(limit, 1)
	counts := runBackfill(ctx, ids, cfg.GetRecalcConcurrency(), limiter, recalc, log)

	log.Info("recalculation backfill finished",
		"total", len(ids),
		"ok", counts.OK,
		"conflict", counts.Conflict,
		"failed", counts.Failed,
		"skipped", counts.Skipped,
	)
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid quotation id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
