package scheduler

import (
	"context"
	"errors"
	"testing"

	"sales_quotation_backend/internal/quotations/transport"
	"sales_quotation_backend/platform/apperr"
	"sales_quotation_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type fakeRecalculator struct {
	calls []int64
	err   error
}

func (f *fakeRecalculator) Recalculate(_ context.Context, quotationID int64) (*transport.CalculationSummary, error) {
	f.calls = append(f.calls, quotationID)
	if f.err != nil {
		return nil, f.err
	}
	return &transport.CalculationSummary{QuotationID: quotationID, RunID: "run"}, nil
}

func newRecalcTask(t *testing.T, quotationID int64) *asynq.Task {
	t.Helper()
	task, err := NewRecalculateQuotationTask(RecalculateQuotationPayload{QuotationID: quotationID, Reason: ReasonDuplicated})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return task
}

func TestRecalculateTask_RoundTrip(t *testing.T) {
	task := newRecalcTask(t, 42)
	if task.Type() != TaskRecalculateQuotation {
		t.Fatalf("expected task type %q, got %q", TaskRecalculateQuotation, task.Type())
	}

	payload, err := ParseRecalculateQuotationPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.QuotationID != 42 || payload.Reason != ReasonDuplicated {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if RecalculationTaskID(42) != "quotation-recalc:42" {
		t.Fatalf("unexpected task id %q", RecalculationTaskID(42))
	}
}

func TestHandleRecalculate(t *testing.T) {
	cases := []struct {
		name      string
		task      *asynq.Task
		err       error
		wantErr   bool
		wantSkip  bool
		wantCalls int
	}{
		{name: "success", task: newRecalcTask(t, 7), wantCalls: 1},
		{name: "conflict is retried", task: newRecalcTask(t, 7), err: apperr.Conflict("busy"), wantErr: true, wantCalls: 1},
		{name: "untyped error is retried", task: newRecalcTask(t, 7), err: errors.New("timeout"), wantErr: true, wantCalls: 1},
		{name: "validation is not retried", task: newRecalcTask(t, 7), err: apperr.Validation("division by zero"), wantErr: true, wantSkip: true, wantCalls: 1},
		{name: "missing quotation is not retried", task: newRecalcTask(t, 7), err: apperr.NotFound("quotation not found"), wantErr: true, wantSkip: true, wantCalls: 1},
		{name: "bad payload", task: asynq.NewTask(TaskRecalculateQuotation, []byte("{")), wantErr: true, wantSkip: true},
		{name: "zero id", task: newRecalcTask(t, 0), wantErr: true, wantSkip: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recalc := &fakeRecalculator{err: tc.err}
			w := &Worker{recalc: recalc, log: logger.Nop()}

			err := w.handleRecalculateQuotation(context.Background(), tc.task)
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected error=%v, got %v", tc.wantErr, err)
			}
			if errors.Is(err, asynq.SkipRetry) != tc.wantSkip {
				t.Fatalf("expected skip retry=%v, got %v", tc.wantSkip, err)
			}
			if len(recalc.calls) != tc.wantCalls {
				t.Fatalf("expected %d calls, got %d", tc.wantCalls, len(recalc.calls))
			}
		})
	}
}

func TestEnqueueRecalculation_NilClientIsNoop(t *testing.T) {
	var c *Client
	if err := c.EnqueueRecalculation(context.Background(), 1, ReasonEdited); err != nil {
		t.Fatalf("expected nil client to be a no-op, got %v", err)
	}
}
