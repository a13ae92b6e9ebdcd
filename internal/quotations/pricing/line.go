package pricing

// aggregateLine fills the HPP and COSS totals of a priced line.
// The COSS exclude-base subtotal leaves OHC out; it is added to the COSS total on its own.
func aggregateLine(l *Line) {
	hc := float64(l.Headcount)

	l.TotalPersonil = l.BaseWage + l.TotalAllowance + l.THR + l.Compensation + l.HolidayAllowance +
		l.Overtime + l.Takaful + l.BPJSKetenagakerjaan + l.BPJSKesehatan +
		l.Goods.Kaporlap + l.Goods.Devices + l.Goods.Chemical + l.Goods.OHC +
		l.BankFee + l.Incentive - l.BPUDeduction
	l.SubTotalPersonil = l.TotalPersonil * hc

	l.TotalBaseManpower = round2(l.BaseWage + l.TotalAllowance)
	l.TotalExcludeBaseManpower = round2(l.THR + l.Compensation + l.HolidayAllowance + l.Overtime +
		l.Takaful + l.BPJSKesehatan + l.BPJSKetenagakerjaan +
		l.GoodsCoss.Kaporlap + l.GoodsCoss.Devices + l.GoodsCoss.Chemical)
	l.TotalPersonilCoss = round2(l.TotalBaseManpower + l.TotalExcludeBaseManpower + l.GoodsCoss.OHC - l.BPUDeduction)
	l.SubTotalPersonilCoss = round2(l.TotalPersonilCoss * hc)
}
