package scheduler

import (
	"context"
	"errors"
	"fmt"

	"sales_quotation_backend/internal/quotations/transport"
	"sales_quotation_backend/platform/apperr"
	"sales_quotation_backend/platform/config"
	"sales_quotation_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Recalculator runs one quotation recalculation.
type Recalculator interface {
	Recalculate(ctx context.Context, quotationID int64) (*transport.CalculationSummary, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	recalc Recalculator
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, recalc Recalculator, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		recalc: recalc,
		log:    log,
	}

	mux.HandleFunc(TaskRecalculateQuotation, w.handleRecalculateQuotation)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("recalculation worker stopped", "error", err)
	}
}

func (w *Worker) handleRecalculateQuotation(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRecalculateQuotationPayload(task)
	if err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.QuotationID <= 0 {
		return fmt.Errorf("invalid quotation id %d: %w", payload.QuotationID, asynq.SkipRetry)
	}

	log := w.log.WithQuotation(payload.QuotationID)

	summary, err := w.recalc.Recalculate(ctx, payload.QuotationID)
	if err != nil {
		if !retryable(err) {
			log.Warn("recalculation rejected", "reason", payload.Reason, "kind", apperr.GetKind(err).String(), "error", err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		log.Warn("recalculation failed, will retry", "reason", payload.Reason, "error", err)
		return err
	}

	log.Info("quotation recalculated",
		"reason", payload.Reason,
		"run_id", summary.RunID,
		"total_invoice_coss", summary.TotalInvoiceCoss,
	)
	return nil
}

// retryable treats untyped errors as transient.
func retryable(err error) bool {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Retryable()
	}
	return true
}
