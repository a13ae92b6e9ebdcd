// Package pricing computes the internal cost (HPP) and client tariff (COSS) of a
// quotation from its staffing lines.
//
// A calculation runs two full passes. Pass 1 prices every line without gross-up
// charges; its totals give the per-head bank interest and incentive, which pass 2
// injects into every line not pinned by an HPP row. Only pass 2 is returned.
package pricing

import (
	"context"
	"fmt"
	"time"

	"sales_quotation_backend/internal/quotations/model"
	"sales_quotation_backend/platform/apperr"
	"sales_quotation_backend/platform/logger"

	"github.com/google/uuid"
)

const calculateOp = "pricing.calculate"

// Store is the read surface the calculator loads a quotation's graph through.
type Store interface {
	WageWriter
	ListDetails(ctx context.Context, quotationID int64) ([]model.Detail, error)
	ListSites(ctx context.Context, quotationID int64) ([]model.Site, error)
	ListGoods(ctx context.Context, quotationID int64) (model.Goods, error)
}

// Calculator is the entry point of the pricing engine.
type Calculator struct {
	store Store
	rates RateTable
	wages *WageResolver
	log   *logger.Logger
}

// NewCalculator creates a calculator reading through store.
func NewCalculator(store Store, rates RateTable, log *logger.Logger) *Calculator {
	return &Calculator{
		store: store,
		rates: rates,
		wages: NewWageResolver(store, log),
		log:   log,
	}
}

// Calculate prices a quotation. The quotation and its loaded details are not
// modified. A quotation without details yields an empty result, not an error.
// Any failure while pricing a line aborts the whole calculation.
func (c *Calculator) Calculate(ctx context.Context, q *model.Quotation) (*Result, error) {
	if q == nil {
		return nil, apperr.Validation("quotation is required").WithOp(calculateOp)
	}

	started := time.Now()
	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	log := c.log.WithContext(ctx).WithQuotation(q.ID)

	details, err := c.store.ListDetails(ctx, q.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load details", err).WithOp(calculateOp)
	}
	sites, err := c.store.ListSites(ctx, q.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load sites", err).WithOp(calculateOp)
	}

	result := &Result{QuotationID: q.ID, RunID: runID}
	result.BackfilledWages = c.wages.Resolve(ctx, q.ID, details)

	if len(details) == 0 {
		log.Debug("quotation has no details, nothing to price")
		return result, nil
	}

	goods, err := c.store.ListGoods(ctx, q.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load goods", err).WithOp(calculateOp)
	}

	headcount := 0
	for _, d := range details {
		headcount += d.Headcount
	}
	months := ContractMonths(q.ContractDuration)
	calc := newComponentCalculator(q, c.rates, details, sites, goods, headcount, months)

	pass1, err := c.runPass(log, calc, q, details, charges{}, stagePass1)
	if err != nil {
		return nil, err
	}

	injected, err := deriveGrossUp(q, pass1, headcount)
	if err != nil {
		log.CalculationFailed(q.ID, 0, string(stageGrossUp), err)
		return nil, wrapCalculationError(err, "derive gross-up")
	}

	pass2, err := c.runPass(log, calc, q, details, injected, stagePass2)
	if err != nil {
		return nil, err
	}

	result.Lines = pass2.lines
	result.Summary = Summary{
		HPP:                       pass2.hpp,
		COSS:                      pass2.coss,
		BankFeeTotal:              injected.bankFee,
		IncentiveTotal:            injected.incentive,
		PersenBPJSKetenagakerjaan: pass2.persenKetenagakerjaan,
		PersenBPJSKesehatan:       pass2.persenKesehatan,
		TotalBPUDeduction:         pass2.totalBPUDeduction,
		Headcount:                 headcount,
		ContractMonths:            months,
	}
	if q.IsBPU() {
		result.Summary.BPUDeductionPerPerson = c.rates.BPUDeduction
	}

	log.CalculationCompleted(q.ID, len(details), result.Summary.COSS.TotalInvoice, float64(time.Since(started).Microseconds())/1000)
	return result, nil
}

// runPass prices every line and rolls them up. The quotation-level BPJS
// percentages take the value of the last line that produced a non-zero one.
func (c *Calculator) runPass(log *logger.Logger, calc *componentCalculator, q *model.Quotation, details []model.Detail, injected charges, st stage) (passResult, error) {
	res := passResult{lines: make([]Line, 0, len(details))}

	for i := range details {
		d := &details[i]
		line, err := calc.compute(d, injected)
		if err != nil {
			log.CalculationFailed(q.ID, d.ID, string(st), err)
			return passResult{}, wrapCalculationError(err, fmt.Sprintf("detail %d", d.ID))
		}
		aggregateLine(&line)

		if pct := line.BPJS.KetenagakerjaanPercent(); pct != 0 {
			res.persenKetenagakerjaan = pct
		}
		if line.BPJS.KESPercent != 0 {
			res.persenKesehatan = line.BPJS.KESPercent
		}
		res.totalBPUDeduction += line.BPUDeduction * float64(line.Headcount)
		res.lines = append(res.lines, line)
	}

	res.hpp, res.coss = aggregateQuotation(q, res.lines)
	return res, nil
}

// wrapCalculationError keeps the kind of typed errors and treats the rest as internal.
func wrapCalculationError(err error, message string) error {
	kind := apperr.GetKind(err)
	if kind == apperr.KindUnknown {
		kind = apperr.KindInternal
	}
	return apperr.Wrap(kind, message, err).WithOp(calculateOp)
}
