package pricing

// BPJS holds the five social-insurance contributions of one line, amount and percent.
type BPJS struct {
	JKK        float64 `json:"bpjs_jkk"`
	JKKPercent float64 `json:"persen_bpjs_jkk"`
	JKM        float64 `json:"bpjs_jkm"`
	JKMPercent float64 `json:"persen_bpjs_jkm"`
	JHT        float64 `json:"bpjs_jht"`
	JHTPercent float64 `json:"persen_bpjs_jht"`
	JP         float64 `json:"bpjs_jp"`
	JPPercent  float64 `json:"persen_bpjs_jp"`
	KES        float64 `json:"bpjs_kes"`
	KESPercent float64 `json:"persen_bpjs_kes"`
}

// Ketenagakerjaan is the employment-insurance sum (jkk + jkm + jht + jp).
func (b BPJS) Ketenagakerjaan() float64 {
	return b.JKK + b.JKM + b.JHT + b.JP
}

// KetenagakerjaanPercent is the matching percent sum.
func (b BPJS) KetenagakerjaanPercent() float64 {
	return b.JKKPercent + b.JKMPercent + b.JHTPercent + b.JPPercent
}

// GoodsCost is the per-person monthly provision for ad-hoc goods.
type GoodsCost struct {
	Kaporlap float64 `json:"personil_kaporlap"`
	Devices  float64 `json:"personil_devices"`
	Chemical float64 `json:"personil_chemical"`
	OHC      float64 `json:"personil_ohc"`
}

// Line is the priced result of one quotation detail.
type Line struct {
	DetailID  int64 `json:"quotation_detail_id"`
	SiteID    int64 `json:"quotation_site_id"`
	Headcount int   `json:"jumlah_hc"`

	BaseWage       float64            `json:"nominal_upah"`
	BPJSBase       float64            `json:"upah_bpjs"`
	Allowances     map[string]float64 `json:"tunjangan"`
	TotalAllowance float64            `json:"total_tunjangan"`

	BPJS                BPJS    `json:"bpjs"`
	BPJSKetenagakerjaan float64 `json:"bpjs_ketenagakerjaan"`
	BPJSKesehatan       float64 `json:"bpjs_kesehatan"`

	THR              float64 `json:"tunjangan_hari_raya"`
	Compensation     float64 `json:"kompensasi"`
	HolidayAllowance float64 `json:"tunjangan_holiday"`
	Overtime         float64 `json:"lembur"`
	Takaful          float64 `json:"nominal_takaful"`

	Goods     GoodsCost `json:"goods"`
	GoodsCoss GoodsCost `json:"goods_coss"`

	BankFee      float64 `json:"bunga_bank"`
	Incentive    float64 `json:"insentif"`
	BPUDeduction float64 `json:"potongan_bpu"`

	TotalPersonil    float64 `json:"total_personil"`
	SubTotalPersonil float64 `json:"sub_total_personil"`

	TotalBaseManpower        float64 `json:"total_base_manpower"`
	TotalExcludeBaseManpower float64 `json:"total_exclude_base_manpower"`
	TotalPersonilCoss        float64 `json:"total_personil_coss"`
	SubTotalPersonilCoss     float64 `json:"sub_total_personil_coss"`

	hppTax  taxOverride
	cossTax taxOverride
}

type taxOverride struct {
	ppn *float64
	pph *float64
}

// CostView is one quotation-level rollup, either internal cost (HPP) or client tariff (COSS).
type CostView struct {
	TotalBeforeFee      float64 `json:"total_sebelum_management_fee"`
	TotalBaseManpower   float64 `json:"total_base_manpower"`
	BaseWageTotal       float64 `json:"upah_pokok"`
	TotalBPJS           float64 `json:"total_bpjs"`
	TotalBPJSKesehatan  float64 `json:"total_bpjs_kesehatan"`
	ManagementFee       float64 `json:"nominal_management_fee"`
	GrandTotalBeforeTax float64 `json:"grand_total_sebelum_pajak"`
	DPP                 float64 `json:"dpp"`
	PPN                 float64 `json:"ppn"`
	PPH                 float64 `json:"pph"`
	TotalInvoice        float64 `json:"total_invoice"`
	Rounded             float64 `json:"pembulatan"`
	Margin              float64 `json:"margin"`
	GPM                 float64 `json:"gpm"`
}

// Summary is the quotation-level outcome of a calculation.
type Summary struct {
	HPP  CostView `json:"hpp"`
	COSS CostView `json:"coss"`

	BankFeeTotal   float64 `json:"bunga_bank_total"`
	IncentiveTotal float64 `json:"insentif_total"`

	PersenBPJSKetenagakerjaan float64 `json:"persen_bpjs_ketenagakerjaan"`
	PersenBPJSKesehatan       float64 `json:"persen_bpjs_kesehatan"`

	TotalBPUDeduction     float64 `json:"total_potongan_bpu"`
	BPUDeductionPerPerson float64 `json:"potongan_bpu_per_orang"`

	Headcount      int `json:"jumlah_hc"`
	ContractMonths int `json:"provisi"`
}

// Result is what Calculate returns. Loaded entities are never mutated; callers
// persist Summary and Lines themselves.
type Result struct {
	QuotationID     int64   `json:"quotation_id"`
	RunID           string  `json:"run_id"`
	Summary         Summary `json:"summary"`
	Lines           []Line  `json:"lines"`
	BackfilledWages int     `json:"backfilled_wages"`
}

// Empty reports whether the quotation had no detail lines.
func (r *Result) Empty() bool {
	return len(r.Lines) == 0
}
