package main

import (
	"context"
	"sync/atomic"

	"sales_quotation_backend/platform/apperr"
	"sales_quotation_backend/platform/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type backfillCounts struct {
	OK       int64
	Conflict int64
	Failed   int64
	Skipped  int64
}

// runBackfill applies fn to every id. A failing id is logged and counted; only
// cancellation stops the run, and ids not reached are counted as skipped.
func runBackfill(ctx context.Context, ids []int64, concurrency int, limiter *rate.Limiter, fn func(context.Context, int64) error, log *logger.Logger) backfillCounts {
	if concurrency < 1 {
		concurrency = 1
	}

	var ok, conflict, failed, started atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, id := range ids {
		id := id
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			started.Add(1)

			err := fn(gctx, id)
			switch {
			case err == nil:
				ok.Add(1)
			case apperr.Is(err, apperr.KindConflict):
				conflict.Add(1)
				log.Warn("quotation recalculation already running", "quotation_id", id)
			default:
				failed.Add(1)
				log.Error("quotation recalculation failed", "quotation_id", id, "kind", apperr.GetKind(err).String(), "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn("recalculation backfill interrupted", "error", err)
	}

	return backfillCounts{
		OK:       ok.Load(),
		Conflict: conflict.Load(),
		Failed:   failed.Load(),
		Skipped:  int64(len(ids)) - started.Load(),
	}
}
