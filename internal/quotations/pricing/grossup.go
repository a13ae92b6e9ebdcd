package pricing

import "sales_quotation_backend/internal/quotations/model"

// stage names the step of the two-pass calculation, for logs and errors.
type stage string

const (
	stagePass1   stage = "pass1"
	stageGrossUp stage = "gross_up"
	stagePass2   stage = "pass2"
)

// passResult is the outcome of one full pricing pass.
type passResult struct {
	lines []Line
	hpp   CostView
	coss  CostView

	persenKetenagakerjaan float64
	persenKesehatan       float64
	totalBPUDeduction     float64
}

// deriveGrossUp computes the per-head bank interest and incentive from pass-1 totals.
// Bank interest applies only on TOP payment terms; incentive only when a rate is set.
func deriveGrossUp(q *model.Quotation, pass1 passResult, headcount int) (charges, error) {
	var c charges

	if q.PaymentTerms != model.PaymentTermsNonTOP {
		v, err := divide(q.BankInterestPct/100*pass1.hpp.TotalBeforeFee, float64(headcount), "jumlah_hc")
		if err != nil {
			return charges{}, err
		}
		c.bankFee = v
	}

	if q.IncentivePct != 0 {
		v, err := divide(q.IncentivePct/100*pass1.coss.ManagementFee, float64(headcount), "jumlah_hc")
		if err != nil {
			return charges{}, err
		}
		c.incentive = v
	}

	return c, nil
}
