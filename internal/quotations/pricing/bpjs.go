package pricing

import "sales_quotation_backend/internal/quotations/model"

// bpjsBase clamps the contribution base into [ump, max(wage, umk)], taking umk
// exactly when the wage equals it.
func bpjsBase(wage, umk, ump float64) float64 {
	switch {
	case wage > umk:
		return wage
	case wage == umk:
		return umk
	case wage >= ump:
		return wage
	default:
		return ump
	}
}

// contribution applies the pinned amount/percent when the amount is pinned,
// otherwise base × percent / 100.
func contribution(base, defaultPct float64, amount, pct *float64) (float64, float64) {
	if amount != nil {
		return *amount, resolve(pct, defaultPct)
	}
	p := resolve(pct, defaultPct)
	return base * p / 100, p
}

// computeBPJS prices the five contributions of a line under the normal program.
// Opt-out flags zero a contribution after it is computed, pinned or not.
func (c *componentCalculator) computeBPJS(d *model.Detail, base, umk float64) BPJS {
	var pinned model.HppOverride
	if d.HppOverride != nil {
		pinned = *d.HppOverride
	}

	var b BPJS
	b.JKK, b.JKKPercent = contribution(base, c.rates.JKKPercent(c.quotation.RiskLevel), pinned.JKK, pinned.JKKPercent)
	b.JKM, b.JKMPercent = contribution(base, c.rates.JKM, pinned.JKM, pinned.JKMPercent)
	b.JHT, b.JHTPercent = contribution(base, c.rates.JHT, pinned.JHT, pinned.JHTPercent)
	b.JP, b.JPPercent = contribution(base, c.rates.JP, pinned.JP, pinned.JPPercent)
	b.KES, b.KESPercent = contribution(umk, c.rates.KES, pinned.KES, pinned.KESPercent)

	if d.IsBPJSJKK == model.BPJSOptOut {
		b.JKK, b.JKKPercent = 0, 0
	}
	if d.IsBPJSJKM == model.BPJSOptOut {
		b.JKM, b.JKMPercent = 0, 0
	}
	if d.IsBPJSJHT == model.BPJSOptOut {
		b.JHT, b.JHTPercent = 0, 0
	}
	if d.IsBPJSJP == model.BPJSOptOut {
		b.JP, b.JPPercent = 0, 0
	}
	if d.HealthInsurer != model.HealthInsurerBPJS {
		b.KES, b.KESPercent = 0, 0
	}

	return b
}
