package pricing

import (
	"testing"

	"sales_quotation_backend/internal/quotations/model"
)

func TestBPJSBase_ClampsToWageBand(t *testing.T) {
	const ump, umk = 4_000_000, 4_500_000

	cases := []struct {
		name string
		wage float64
		want float64
	}{
		{name: "above umk keeps wage", wage: 5_000_000, want: 5_000_000},
		{name: "equal to umk", wage: 4_500_000, want: 4_500_000},
		{name: "between ump and umk keeps wage", wage: 4_200_000, want: 4_200_000},
		{name: "below ump lifts to ump", wage: 3_000_000, want: 4_000_000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := bpjsBase(tc.wage, umk, ump); got != tc.want {
				t.Fatalf("expected base %.0f, got %.0f", tc.want, got)
			}
		})
	}
}

func TestCompute_DefaultBPJSRates(t *testing.T) {
	q := baseQuotation()
	q.RiskLevel = RiskMedium
	d := baseDetail(1, 1, 5_000_000)
	calc := newTestCalculator(q, []model.Detail{d}, model.Goods{}, 1, 12)

	line, err := calc.compute(&d, charges{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertMoney(t, "jkk", line.BPJS.JKK, 44_500)
	assertMoney(t, "jkm", line.BPJS.JKM, 15_000)
	assertMoney(t, "jht", line.BPJS.JHT, 185_000)
	assertMoney(t, "jp", line.BPJS.JP, 100_000)
	assertMoney(t, "bpjs ketenagakerjaan", line.BPJSKetenagakerjaan, 344_500)
	// health contributions are based on umk, not the clamped base
	assertMoney(t, "bpjs kesehatan", line.BPJSKesehatan, 180_000)
	if line.BPJS.JKKPercent != 0.89 {
		t.Fatalf("expected jkk percent 0.89, got %v", line.BPJS.JKKPercent)
	}
}

func TestCompute_OptOutFlagsZeroContribution(t *testing.T) {
	q := baseQuotation()
	d := baseDetail(1, 1, 5_000_000)
	d.IsBPJSJP = model.BPJSOptOut
	d.IsBPJSJHT = model.BPJSOptOut
	d.HppOverride = &model.HppOverride{JP: ptr(99_000), JPPercent: ptr(1.9)}
	d.HealthInsurer = model.HealthInsurerTakaful
	d.TakafulAmount = 75_000
	calc := newTestCalculator(q, []model.Detail{d}, model.Goods{}, 1, 12)

	line, err := calc.compute(&d, charges{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if line.BPJS.JP != 0 || line.BPJS.JPPercent != 0 {
		t.Fatalf("expected pinned but opted-out jp to be zero, got %v/%v", line.BPJS.JP, line.BPJS.JPPercent)
	}
	if line.BPJS.JHT != 0 || line.BPJS.JHTPercent != 0 {
		t.Fatalf("expected opted-out jht to be zero, got %v/%v", line.BPJS.JHT, line.BPJS.JHTPercent)
	}
	if line.BPJSKesehatan != 0 {
		t.Fatalf("expected no bpjs kesehatan for takaful insurer, got %v", line.BPJSKesehatan)
	}
	assertMoney(t, "takaful", line.Takaful, 75_000)
}

func TestCompute_PinnedContributionUsedVerbatim(t *testing.T) {
	q := baseQuotation()
	d := baseDetail(1, 1, 5_000_000)
	d.HppOverride = &model.HppOverride{JKK: ptr(10_000), JKKPercent: ptr(0.2)}
	calc := newTestCalculator(q, []model.Detail{d}, model.Goods{}, 1, 12)

	line, err := calc.compute(&d, charges{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if line.BPJS.JKK != 10_000 || line.BPJS.JKKPercent != 0.2 {
		t.Fatalf("expected pinned jkk 10000/0.2, got %v/%v", line.BPJS.JKK, line.BPJS.JKKPercent)
	}
	assertMoney(t, "jkm", line.BPJS.JKM, 15_000)
}

func TestCompute_BPUDeductsFlatAmountAndZeroesBPJS(t *testing.T) {
	q := baseQuotation()
	q.ProgramBPJS = model.ProgramBPJSBPU
	d := baseDetail(1, 1, 5_000_000)
	d.Wage.THR = model.PolicyProvisioned
	calc := newTestCalculator(q, []model.Detail{d}, model.Goods{}, 1, 12)

	line, err := calc.compute(&d, charges{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if line.BPJS != (BPJS{}) {
		t.Fatalf("expected all bpjs fields zero under BPU, got %+v", line.BPJS)
	}
	assertMoney(t, "nominal upah", line.BaseWage, 4_984_000)
	assertMoney(t, "potongan bpu", line.BPUDeduction, 16_000)
	// THR is provisioned from the reduced wage
	assertMoney(t, "thr", line.THR, 4_984_000.0/12)
}

func TestCompute_WageDerivedComponents(t *testing.T) {
	cases := []struct {
		name     string
		wage     model.Wage
		pinned   *model.HppOverride
		thr      float64
		comp     float64
		holiday  float64
		overtime float64
	}{
		{
			name: "defaults produce nothing",
			wage: *model.DefaultWage(1, 1),
		},
		{
			name: "provisioned thr and compensation",
			wage: model.Wage{THR: model.PolicyProvisioned, Compensation: model.PolicyProvisioned},
			thr:  500_000,
			comp: 500_000,
		},
		{
			name:    "flat holiday allowance",
			wage:    model.Wage{HolidayAllowance: model.PolicyFlat, HolidayAllowanceAmount: 250_000},
			holiday: 250_000,
		},
		{
			name:     "overtime per hour",
			wage:     model.Wage{Overtime: model.PolicyFlat, OvertimeAmount: 20_000, OvertimePayType: strPtr(model.OvertimePerHour), OvertimeHoursPerMonth: 10},
			overtime: 200_000,
		},
		{
			name:     "overtime per day",
			wage:     model.Wage{Overtime: model.PolicyFlat, OvertimeAmount: 10_000, OvertimePayType: strPtr(model.OvertimePerDay)},
			overtime: 250_000,
		},
		{
			name:     "overtime flat amount",
			wage:     model.Wage{Overtime: model.PolicyFlat, OvertimeAmount: 300_000},
			overtime: 300_000,
		},
		{
			name: "overtime billed separately",
			wage: model.Wage{Overtime: model.PolicyFlat, OvertimeAmount: 300_000, OvertimeBilling: model.OvertimeBilledSeparately},
		},
		{
			name: "overtime policy not flat",
			wage: model.Wage{Overtime: "Normatif", OvertimeAmount: 300_000},
		},
		{
			name:     "pinned values win",
			wage:     model.Wage{THR: model.PolicyProvisioned, Overtime: model.PolicyFlat, OvertimeAmount: 300_000},
			pinned:   &model.HppOverride{THR: ptr(1), Compensation: ptr(2), HolidayAllowance: ptr(3), Overtime: ptr(4)},
			thr:      1,
			comp:     2,
			holiday:  3,
			overtime: 4,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := baseQuotation()
			d := baseDetail(1, 1, 6_000_000)
			w := tc.wage
			d.Wage = &w
			d.HppOverride = tc.pinned
			calc := newTestCalculator(q, []model.Detail{d}, model.Goods{}, 1, 12)

			line, err := calc.compute(&d, charges{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertMoney(t, "thr", line.THR, tc.thr)
			assertMoney(t, "kompensasi", line.Compensation, tc.comp)
			assertMoney(t, "tunjangan holiday", line.HolidayAllowance, tc.holiday)
			assertMoney(t, "lembur", line.Overtime, tc.overtime)
		})
	}
}

func TestCompute_AllowanceSchemaSharedAcrossDetails(t *testing.T) {
	q := baseQuotation()
	a := baseDetail(1, 1, 5_000_000)
	a.Allowances = []model.Allowance{{Name: "Transport", Amount: 300_000}, {Name: "Makan", Amount: 200_000}}
	b := baseDetail(2, 1, 5_000_000)
	b.Allowances = []model.Allowance{{Name: "Jabatan", Amount: 1_000_000}}
	details := []model.Detail{a, b}
	calc := newTestCalculator(q, details, model.Goods{}, 2, 12)

	line, err := calc.compute(&details[1], charges{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(line.Allowances) != 3 {
		t.Fatalf("expected 3 allowance columns, got %d", len(line.Allowances))
	}
	if line.Allowances["Transport"] != 0 || line.Allowances["Makan"] != 0 {
		t.Fatalf("expected missing allowances to be 0, got %+v", line.Allowances)
	}
	assertMoney(t, "total tunjangan", line.TotalAllowance, 1_000_000)
}

func TestCompute_ChemicalAmortization(t *testing.T) {
	q := baseQuotation()
	d := baseDetail(1, 3, 5_000_000)
	goods := model.Goods{
		Chemical: []model.GoodsItem{{ID: 7, Quantity: 2, Price: 600_000, ServiceLife: 12}},
	}
	calc := newTestCalculator(q, []model.Detail{d}, goods, 3, 12)

	line, err := calc.compute(&d, charges{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertMoney(t, "personil chemical", line.Goods.Chemical, 33_333.33)
	assertMoney(t, "personil chemical coss", line.GoodsCoss.Chemical, 33_333.33)
}

func TestCompute_GoodsProvisioning(t *testing.T) {
	q := baseQuotation()
	d := baseDetail(1, 2, 5_000_000)
	other := baseDetail(2, 2, 5_000_000)
	other.SiteID = 2
	goods := model.Goods{
		Kaporlap: []model.GoodsItem{
			{ID: 1, DetailID: idPtr(1), Quantity: 4, Price: 150_000},
			{ID: 2, DetailID: idPtr(2), Quantity: 4, Price: 999_000},
		},
		Devices: []model.GoodsItem{
			{ID: 3, Quantity: 2, Price: 1_200_000},
			{ID: 4, SiteID: idPtr(2), Quantity: 1, Price: 5_000_000},
		},
		OHC: []model.GoodsItem{{ID: 5, Quantity: 1, Price: 2_400_000}},
	}
	calc := newTestCalculator(q, []model.Detail{d, other}, goods, 4, 6)

	line, err := calc.compute(&d, charges{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// kaporlap: 4 × 150,000 over 6 months, not divided by headcount
	assertMoney(t, "personil kaporlap", line.Goods.Kaporlap, 100_000)
	// devices: only the unscoped row, over 6 months and 4 heads
	assertMoney(t, "personil devices", line.Goods.Devices, 100_000)
	assertMoney(t, "personil ohc", line.Goods.OHC, 100_000)
	if line.GoodsCoss != line.Goods {
		t.Fatalf("expected coss goods to equal hpp goods, got %+v vs %+v", line.GoodsCoss, line.Goods)
	}
}

func TestCompute_PinnedGoods(t *testing.T) {
	q := baseQuotation()
	d := baseDetail(1, 1, 5_000_000)
	d.HppOverride = &model.HppOverride{Kaporlap: ptr(50_000), Devices: ptr(20_000)}
	d.CossOverride = &model.CossOverride{Kaporlap: ptr(65_000)}
	goods := model.Goods{
		Kaporlap: []model.GoodsItem{{ID: 1, DetailID: idPtr(1), Quantity: 1, Price: 1_200_000}},
	}
	calc := newTestCalculator(q, []model.Detail{d}, goods, 1, 12)

	line, err := calc.compute(&d, charges{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertMoney(t, "personil kaporlap", line.Goods.Kaporlap, 50_000)
	assertMoney(t, "personil kaporlap coss", line.GoodsCoss.Kaporlap, 65_000)
	assertMoney(t, "personil devices coss", line.GoodsCoss.Devices, 20_000)
}

func TestCompute_ZeroServiceLifeFails(t *testing.T) {
	q := baseQuotation()
	d := baseDetail(1, 1, 5_000_000)
	goods := model.Goods{Chemical: []model.GoodsItem{{ID: 9, Quantity: 1, Price: 100_000}}}
	calc := newTestCalculator(q, []model.Detail{d}, goods, 1, 12)

	if _, err := calc.compute(&d, charges{}); err == nil {
		t.Fatal("expected division by zero error for chemical without masa_pakai")
	}
}

func TestCompute_InjectedChargesRespectPins(t *testing.T) {
	q := baseQuotation()
	d := baseDetail(1, 1, 5_000_000)
	d.HppOverride = &model.HppOverride{BankFee: ptr(5_000)}
	calc := newTestCalculator(q, []model.Detail{d}, model.Goods{}, 1, 12)

	line, err := calc.compute(&d, charges{bankFee: 70_000, incentive: 12_000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertMoney(t, "bunga bank", line.BankFee, 5_000)
	assertMoney(t, "insentif", line.Incentive, 12_000)
}
