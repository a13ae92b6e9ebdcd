package pricing

import (
	"context"

	"sales_quotation_backend/internal/quotations/model"
	"sales_quotation_backend/platform/logger"
)

// WageWriter persists default wage rows created for details that have none.
type WageWriter interface {
	CreateWage(ctx context.Context, wage *model.Wage) error
}

// WageResolver makes sure every detail carries wage terms before pricing.
type WageResolver struct {
	writer WageWriter
	log    *logger.Logger
}

// NewWageResolver creates a resolver backed by writer.
func NewWageResolver(writer WageWriter, log *logger.Logger) *WageResolver {
	return &WageResolver{writer: writer, log: log}
}

// Resolve attaches a default wage to each detail without one and tries to persist it.
// A failed write is logged and the in-memory default is used anyway. It returns the
// number of defaults created.
func (r *WageResolver) Resolve(ctx context.Context, quotationID int64, details []model.Detail) int {
	created := 0
	for i := range details {
		d := &details[i]
		if d.Wage != nil {
			continue
		}

		wage := model.DefaultWage(quotationID, d.ID)
		if err := r.writer.CreateWage(ctx, wage); err != nil {
			r.log.WithContext(ctx).WageBackfillFailed(quotationID, d.ID, err)
		}
		d.Wage = wage
		created++
	}
	return created
}
