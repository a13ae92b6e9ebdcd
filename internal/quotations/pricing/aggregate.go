package pricing

import "sales_quotation_backend/internal/quotations/model"

// Management fee bases, keyed by management_fee_id.
const (
	FeeOnBaseManpower       = 1
	FeeOnTotalBeforeFee     = 4
	FeeOnBaseWage           = 5
	FeeOnBaseWageBPJS       = 6
	FeeOnBaseWageBPJSHealth = 7
	FeeOnBaseWageHealthOnly = 8
)

// Tax constants: DPP is 11/12 of the base, PPN 12% of DPP, PPh a 2% withholding.
const (
	dppNumerator   = 11.0
	dppDenominator = 12.0
	ppnPercent     = 12.0
	pphPercent     = -2.0
)

type viewKind int

const (
	viewHPP viewKind = iota
	viewCOSS
)

func (v viewKind) String() string {
	if v == viewCOSS {
		return "coss"
	}
	return "hpp"
}

// managementFee applies the fee percentage to the base selected by feeID.
// Unknown ids fall back to the base-manpower formula.
func managementFee(feeID int, pct float64, v CostView) float64 {
	var base float64
	switch feeID {
	case FeeOnTotalBeforeFee:
		base = v.TotalBeforeFee
	case FeeOnBaseWage:
		base = v.BaseWageTotal
	case FeeOnBaseWageBPJS:
		base = v.BaseWageTotal + v.TotalBPJS
	case FeeOnBaseWageBPJSHealth:
		base = v.BaseWageTotal + v.TotalBPJS + v.TotalBPJSKesehatan
	case FeeOnBaseWageHealthOnly:
		base = v.BaseWageTotal + v.TotalBPJSKesehatan
	default:
		base = v.TotalBaseManpower
	}
	return base * pct / 100
}

// applyTaxes sums pinned per-line PPN/PPh, then fills whichever sum is still zero
// with the default computation. DPP belongs to that default computation only: when
// both sums come from pinned rows it stays 0 in the view and in storage.
func applyTaxes(q *model.Quotation, lines []Line, kind viewKind, v *CostView) {
	var ppn, pph float64
	for _, l := range lines {
		t := l.hppTax
		if kind == viewCOSS {
			t = l.cossTax
		}
		ppn += resolve(t.ppn, 0)
		pph += resolve(t.pph, 0)
	}

	if ppn == 0 || pph == 0 {
		base := v.GrandTotalBeforeTax
		if q.TaxDeductedOn == model.TaxBaseManagementFee {
			base = v.ManagementFee
		}
		v.DPP = dppNumerator / dppDenominator * base
		if ppn == 0 && q.IsPPN == model.PPNYes {
			ppn = v.DPP * ppnPercent / 100
		}
		if pph == 0 {
			pph = base * pphPercent / 100
		}
	}

	v.PPN = ppn
	v.PPH = pph
}

// aggregateView rolls lines up into one cost view. hppTotalBeforeFee is the HPP
// subtotal; margin is always measured against it, for both views.
func aggregateView(q *model.Quotation, lines []Line, kind viewKind, hppTotalBeforeFee float64) CostView {
	var v CostView
	for _, l := range lines {
		hc := float64(l.Headcount)
		if kind == viewCOSS {
			v.TotalBeforeFee += l.SubTotalPersonilCoss
		} else {
			v.TotalBeforeFee += l.SubTotalPersonil
		}
		v.TotalBaseManpower += l.TotalBaseManpower * hc
		v.BaseWageTotal += l.BaseWage * hc
		v.TotalBPJS += l.BPJSKetenagakerjaan * hc
		v.TotalBPJSKesehatan += (l.BPJSKesehatan + l.Takaful) * hc
	}
	if kind == viewHPP {
		hppTotalBeforeFee = v.TotalBeforeFee
	}

	v.ManagementFee = managementFee(q.ManagementFeeID, q.ManagementFeePct, v)
	v.GrandTotalBeforeTax = v.TotalBeforeFee + v.ManagementFee

	applyTaxes(q, lines, kind, &v)

	v.TotalInvoice = v.GrandTotalBeforeTax + v.PPN + v.PPH
	v.Rounded = ceilThousand(v.TotalInvoice)
	v.Margin = v.GrandTotalBeforeTax - hppTotalBeforeFee
	if v.GrandTotalBeforeTax != 0 {
		v.GPM = v.Margin / v.GrandTotalBeforeTax * 100
	}
	return v
}

// aggregateQuotation produces both views; HPP first since COSS margin depends on it.
func aggregateQuotation(q *model.Quotation, lines []Line) (CostView, CostView) {
	hpp := aggregateView(q, lines, viewHPP, 0)
	coss := aggregateView(q, lines, viewCOSS, hpp.TotalBeforeFee)
	return hpp, coss
}
