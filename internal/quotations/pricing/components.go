package pricing

import (
	"fmt"
	"sort"

	"sales_quotation_backend/internal/quotations/model"
)

// overtimeDaysPerMonth is the day count used for "Per Hari" overtime.
const overtimeDaysPerMonth = 25

// componentCalculator prices the components of one detail line at a time.
// It is built once per calculation and shared by both passes.
type componentCalculator struct {
	quotation      *model.Quotation
	rates          RateTable
	schema         []string
	goods          model.Goods
	sites          map[int64]model.Site
	headcount      int
	contractMonths int
}

// charges is the gross-up injected into every line whose HPP row does not pin it.
type charges struct {
	bankFee   float64
	incentive float64
}

func newComponentCalculator(q *model.Quotation, rates RateTable, details []model.Detail, sites []model.Site, goods model.Goods, headcount, contractMonths int) *componentCalculator {
	bySite := make(map[int64]model.Site, len(sites))
	for _, s := range sites {
		bySite[s.ID] = s
	}
	return &componentCalculator{
		quotation:      q,
		rates:          rates,
		schema:         allowanceSchema(details),
		goods:          goods,
		sites:          bySite,
		headcount:      headcount,
		contractMonths: contractMonths,
	}
}

// allowanceSchema is the sorted union of allowance names across all details.
func allowanceSchema(details []model.Detail) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, d := range details {
		for _, a := range d.Allowances {
			if _, ok := seen[a.Name]; ok {
				continue
			}
			seen[a.Name] = struct{}{}
			names = append(names, a.Name)
		}
	}
	sort.Strings(names)
	return names
}

// allowances reads the detail's value for every schema name, 0 when absent.
func (c *componentCalculator) allowances(d *model.Detail) (map[string]float64, float64) {
	own := make(map[string]float64, len(d.Allowances))
	for _, a := range d.Allowances {
		if _, ok := own[a.Name]; !ok {
			own[a.Name] = a.Amount
		}
	}

	values := make(map[string]float64, len(c.schema))
	var total float64
	for _, name := range c.schema {
		v := own[name]
		values[name] = v
		total += v
	}
	return values, total
}

// wageFloors returns the detail's UMK/UMP, falling back to its site's.
func (c *componentCalculator) wageFloors(d *model.Detail) (float64, float64) {
	umk, ump := d.UMK, d.UMP
	if site, ok := c.sites[d.SiteID]; ok {
		if umk == 0 {
			umk = site.UMK
		}
		if ump == 0 {
			ump = site.UMP
		}
	}
	return umk, ump
}

// provisioned is the monthly provision of a one-month-wage benefit (THR, compensation).
func provisioned(policy string, baseWage float64) float64 {
	if policy == model.PolicyProvisioned {
		return baseWage / 12
	}
	return 0
}

func holidayAllowance(w *model.Wage) float64 {
	if w.HolidayAllowance == model.PolicyFlat {
		return w.HolidayAllowanceAmount
	}
	return 0
}

func overtime(w *model.Wage) float64 {
	if w.Overtime != model.PolicyFlat {
		return 0
	}
	if w.OvertimeBilling == model.OvertimeBilledSeparately {
		return 0
	}

	payType := ""
	if w.OvertimePayType != nil {
		payType = *w.OvertimePayType
	}
	switch payType {
	case model.OvertimePerHour:
		return w.OvertimeAmount * w.OvertimeHoursPerMonth
	case model.OvertimePerDay:
		return w.OvertimeAmount * overtimeDaysPerMonth
	default:
		return w.OvertimeAmount
	}
}

// compute prices every component of one detail. Totals are left to aggregateLine.
func (c *componentCalculator) compute(d *model.Detail, injected charges) (Line, error) {
	if d.Wage == nil {
		return Line{}, fmt.Errorf("detail %d has no wage terms", d.ID)
	}

	var pinned model.HppOverride
	if d.HppOverride != nil {
		pinned = *d.HppOverride
	}

	line := Line{
		DetailID:  d.ID,
		SiteID:    d.SiteID,
		Headcount: d.Headcount,
	}

	baseWage := d.BaseWage
	if c.quotation.IsBPU() {
		baseWage -= c.rates.BPUDeduction
		line.BPUDeduction = c.rates.BPUDeduction
	} else {
		umk, ump := c.wageFloors(d)
		line.BPJSBase = bpjsBase(baseWage, umk, ump)
		line.BPJS = c.computeBPJS(d, line.BPJSBase, umk)
	}
	line.BaseWage = baseWage
	line.BPJSKetenagakerjaan = line.BPJS.Ketenagakerjaan()
	line.BPJSKesehatan = line.BPJS.KES

	values, total := c.allowances(d)
	line.Allowances = values
	line.TotalAllowance = resolve(pinned.TotalAllowance, total)

	line.THR = resolve(pinned.THR, provisioned(d.Wage.THR, baseWage))
	line.Compensation = resolve(pinned.Compensation, provisioned(d.Wage.Compensation, baseWage))
	line.HolidayAllowance = resolve(pinned.HolidayAllowance, holidayAllowance(d.Wage))
	line.Overtime = resolve(pinned.Overtime, overtime(d.Wage))
	line.Takaful = resolve(pinned.Takaful, d.TakafulAmount)

	hppGoods, cossGoods, err := c.computeGoods(d)
	if err != nil {
		return Line{}, err
	}
	line.Goods = hppGoods
	line.GoodsCoss = cossGoods

	line.BankFee = resolve(pinned.BankFee, injected.bankFee)
	line.Incentive = resolve(pinned.Incentive, injected.incentive)

	line.hppTax = taxOverride{ppn: pinned.PPN, pph: pinned.PPH}
	if d.CossOverride != nil {
		line.cossTax = taxOverride{ppn: d.CossOverride.PPN, pph: d.CossOverride.PPH}
	}

	return line, nil
}
