// Package model holds the quotation entities read by the pricing engine.
// Monetary amounts are rupiah as float64; percentages are whole percents (3.7 means 3.7%).
package model

// BPJS program values
const (
	ProgramBPJSNormal = "Normal"
	ProgramBPJSBPU    = "BPU"
)

// Tax and payment-term values
const (
	PPNYes                   = "Ya"
	TaxBaseManagementFee     = "Management Fee"
	TaxBaseTotalInvoice      = "Total Invoice"
	PaymentTermsNonTOP       = "Non TOP"
	HealthInsurerBPJS        = "BPJS"
	HealthInsurerTakaful     = "Takaful"
	BPJSOptOut               = "0"
	ContractDurationYearWord = "tahun"
)

// Quotation is one pricing computation unit.
type Quotation struct {
	ID                 int64   `db:"id" json:"id"`
	Number             string  `db:"nomor" json:"nomor"`
	ManagementFeeID    int     `db:"management_fee_id" json:"management_fee_id" validate:"gte=0"`
	ManagementFeePct   float64 `db:"persentase" json:"persentase" validate:"gte=0,lte=100"`
	IsPPN              string  `db:"is_ppn" json:"is_ppn" validate:"omitempty,oneof=Ya Tidak"`
	TaxDeductedOn      string  `db:"ppn_pph_dipotong" json:"ppn_pph_dipotong"`
	ProgramBPJS        string  `db:"program_bpjs" json:"program_bpjs"`
	RiskLevel          string  `db:"resiko" json:"resiko"`
	BankInterestPct    float64 `db:"persen_bunga_bank" json:"persen_bunga_bank" validate:"gte=0,lte=100"`
	IncentivePct       float64 `db:"persen_insentif" json:"persen_insentif" validate:"gte=0,lte=100"`
	PaymentTerms       string  `db:"top" json:"top"`
	ContractDuration   *string `db:"durasi_kerjasama" json:"durasi_kerjasama"`
	ManagementFeeLabel string  `db:"management_fee_label" json:"management_fee_label,omitempty"`
}

// IsBPU reports whether the quotation uses the simplified BPU insurance scheme.
func (q *Quotation) IsBPU() bool {
	return q.ProgramBPJS == ProgramBPJSBPU
}

// Site is one client location of a quotation.
type Site struct {
	ID          int64   `db:"id" json:"id"`
	QuotationID int64   `db:"quotation_id" json:"quotation_id"`
	Name        string  `db:"nama_site" json:"nama_site"`
	UMK         float64 `db:"umk" json:"umk"`
	UMP         float64 `db:"ump" json:"ump"`
}

// Detail is one staffing line: one position at one site, repeated Headcount times.
type Detail struct {
	ID            int64   `db:"id" json:"id"`
	QuotationID   int64   `db:"quotation_id" json:"quotation_id"`
	SiteID        int64   `db:"quotation_site_id" json:"quotation_site_id"`
	PositionName  string  `db:"jabatan_kebutuhan" json:"jabatan_kebutuhan"`
	Headcount     int     `db:"jumlah_hc" json:"jumlah_hc" validate:"gte=0"`
	BaseWage      float64 `db:"nominal_upah" json:"nominal_upah"`
	UMK           float64 `db:"umk" json:"umk"`
	UMP           float64 `db:"ump" json:"ump"`
	IsBPJSJKK     string  `db:"is_bpjs_jkk" json:"is_bpjs_jkk"`
	IsBPJSJKM     string  `db:"is_bpjs_jkm" json:"is_bpjs_jkm"`
	IsBPJSJHT     string  `db:"is_bpjs_jht" json:"is_bpjs_jht"`
	IsBPJSJP      string  `db:"is_bpjs_jp" json:"is_bpjs_jp"`
	HealthInsurer string  `db:"penjamin_kesehatan" json:"penjamin_kesehatan"`
	TakafulAmount float64 `db:"nominal_takaful" json:"nominal_takaful"`

	Wage         *Wage         `db:"-" json:"wage,omitempty"`
	Allowances   []Allowance   `db:"-" json:"tunjangan,omitempty"`
	HppOverride  *HppOverride  `db:"-" json:"hpp,omitempty"`
	CossOverride *CossOverride `db:"-" json:"coss,omitempty"`
}

// Wage policy values
const (
	PolicyNone        = "Tidak"
	PolicyProvisioned = "Diprovisikan"
	PolicyFlat        = "Flat"

	OvertimeNotBilled        = "Tidak Ditagihkan"
	OvertimeBilledSeparately = "Ditagihkan Terpisah"

	OvertimePerHour = "Per Jam"
	OvertimePerDay  = "Per Hari"
)

// Wage is the wage/allowance policy of one detail.
type Wage struct {
	ID                     int64   `db:"id" json:"id"`
	QuotationID            int64   `db:"quotation_id" json:"quotation_id"`
	DetailID               int64   `db:"quotation_detail_id" json:"quotation_detail_id"`
	Overtime               string  `db:"lembur" json:"lembur"`
	OvertimeAmount         float64 `db:"nominal_lembur" json:"nominal_lembur"`
	OvertimePayType        *string `db:"jenis_bayar_lembur" json:"jenis_bayar_lembur"`
	OvertimeHoursPerMonth  float64 `db:"jam_per_bulan_lembur" json:"jam_per_bulan_lembur"`
	OvertimeBilling        string  `db:"lembur_ditagihkan" json:"lembur_ditagihkan"`
	Compensation           string  `db:"kompensasi" json:"kompensasi"`
	THR                    string  `db:"thr" json:"thr"`
	HolidayAllowance       string  `db:"tunjangan_holiday" json:"tunjangan_holiday"`
	HolidayAllowanceAmount float64 `db:"nominal_tunjangan_holiday" json:"nominal_tunjangan_holiday"`
	HolidayAllowancePay    *string `db:"jenis_bayar_tunjangan_holiday" json:"jenis_bayar_tunjangan_holiday"`
}

// DefaultWage returns the wage terms used when a detail has none.
func DefaultWage(quotationID, detailID int64) *Wage {
	return &Wage{
		QuotationID:      quotationID,
		DetailID:         detailID,
		Overtime:         PolicyNone,
		OvertimeBilling:  OvertimeNotBilled,
		Compensation:     PolicyNone,
		THR:              PolicyNone,
		HolidayAllowance: PolicyNone,
	}
}

// Allowance is a named ad-hoc allowance (tunjangan) attached to a detail.
type Allowance struct {
	ID       int64   `db:"id" json:"id"`
	DetailID int64   `db:"quotation_detail_id" json:"quotation_detail_id"`
	Name     string  `db:"nama_tunjangan" json:"nama_tunjangan"`
	Amount   float64 `db:"nominal" json:"nominal"`
}

// HppOverride pins internal-cost fields of a detail. A nil field means "compute it".
type HppOverride struct {
	ID       int64 `db:"id" json:"id"`
	DetailID int64 `db:"quotation_detail_id" json:"quotation_detail_id"`

	TotalAllowance   *float64 `db:"total_tunjangan" json:"total_tunjangan"`
	THR              *float64 `db:"tunjangan_hari_raya" json:"tunjangan_hari_raya"`
	Compensation     *float64 `db:"kompensasi" json:"kompensasi"`
	HolidayAllowance *float64 `db:"tunjangan_hari_libur_nasional" json:"tunjangan_hari_libur_nasional"`
	Overtime         *float64 `db:"lembur" json:"lembur"`
	Takaful          *float64 `db:"takaful" json:"takaful"`

	JKK        *float64 `db:"bpjs_jkk" json:"bpjs_jkk"`
	JKKPercent *float64 `db:"persen_bpjs_jkk" json:"persen_bpjs_jkk"`
	JKM        *float64 `db:"bpjs_jkm" json:"bpjs_jkm"`
	JKMPercent *float64 `db:"persen_bpjs_jkm" json:"persen_bpjs_jkm"`
	JHT        *float64 `db:"bpjs_jht" json:"bpjs_jht"`
	JHTPercent *float64 `db:"persen_bpjs_jht" json:"persen_bpjs_jht"`
	JP         *float64 `db:"bpjs_jp" json:"bpjs_jp"`
	JPPercent  *float64 `db:"persen_bpjs_jp" json:"persen_bpjs_jp"`
	KES        *float64 `db:"bpjs_ks" json:"bpjs_ks"`
	KESPercent *float64 `db:"persen_bpjs_ks" json:"persen_bpjs_ks"`

	Kaporlap  *float64 `db:"provisi_seragam" json:"provisi_seragam"`
	Devices   *float64 `db:"provisi_peralatan" json:"provisi_peralatan"`
	Chemical  *float64 `db:"provisi_chemical" json:"provisi_chemical"`
	OHC       *float64 `db:"provisi_ohc" json:"provisi_ohc"`
	BankFee   *float64 `db:"bunga_bank" json:"bunga_bank"`
	Incentive *float64 `db:"insentif" json:"insentif"`

	PPN *float64 `db:"ppn" json:"ppn"`
	PPH *float64 `db:"pph" json:"pph"`
}

// CossOverride pins client-facing fields of a detail. A nil field means "use the HPP figure".
type CossOverride struct {
	ID       int64 `db:"id" json:"id"`
	DetailID int64 `db:"quotation_detail_id" json:"quotation_detail_id"`

	Kaporlap *float64 `db:"provisi_seragam" json:"provisi_seragam"`
	Devices  *float64 `db:"provisi_peralatan" json:"provisi_peralatan"`
	Chemical *float64 `db:"provisi_chemical" json:"provisi_chemical"`
	OHC      *float64 `db:"provisi_ohc" json:"provisi_ohc"`

	PPN *float64 `db:"ppn" json:"ppn"`
	PPH *float64 `db:"pph" json:"pph"`
}

// GoodsItem is one catalog-item usage row (kaporlap, devices, chemical or OHC).
// DetailID scopes kaporlap rows; SiteID optionally scopes the site-level kinds.
type GoodsItem struct {
	ID          int64   `db:"id" json:"id"`
	QuotationID int64   `db:"quotation_id" json:"quotation_id"`
	DetailID    *int64  `db:"quotation_detail_id" json:"quotation_detail_id"`
	SiteID      *int64  `db:"quotation_site_id" json:"quotation_site_id"`
	Name        string  `db:"nama" json:"nama"`
	Quantity    float64 `db:"jumlah" json:"jumlah"`
	Price       float64 `db:"harga" json:"harga"`
	ServiceLife float64 `db:"masa_pakai" json:"masa_pakai"`
}

// Goods groups the ad-hoc goods rows of a quotation by kind.
type Goods struct {
	Kaporlap []GoodsItem
	Devices  []GoodsItem
	Chemical []GoodsItem
	OHC      []GoodsItem
}
