package transport

import (
	"sales_quotation_backend/internal/quotations/model"
	"sales_quotation_backend/internal/quotations/pricing"
)

// ── Responses ─────────────────────────────────────────────────────────────────

// CalculationSummary is the flattened outcome of a quotation calculation.
// COSS figures use the _coss suffix of the quotation columns they mirror.
type CalculationSummary struct {
	QuotationID        int64  `json:"quotation_id"`
	RunID              string `json:"run_id"`
	ManagementFeeLabel string `json:"management_fee_label,omitempty"`

	TotalSebelumManagementFee     float64 `json:"total_sebelum_management_fee"`
	TotalSebelumManagementFeeCoss float64 `json:"total_sebelum_management_fee_coss"`
	NominalManagementFee          float64 `json:"nominal_management_fee"`
	NominalManagementFeeCoss      float64 `json:"nominal_management_fee_coss"`
	GrandTotalSebelumPajak        float64 `json:"grand_total_sebelum_pajak"`
	GrandTotalSebelumPajakCoss    float64 `json:"grand_total_sebelum_pajak_coss"`
	DPP                           float64 `json:"dpp"`
	DPPCoss                       float64 `json:"dpp_coss"`
	PPN                           float64 `json:"ppn"`
	PPNCoss                       float64 `json:"ppn_coss"`
	PPH                           float64 `json:"pph"`
	PPHCoss                       float64 `json:"pph_coss"`
	TotalInvoice                  float64 `json:"total_invoice"`
	TotalInvoiceCoss              float64 `json:"total_invoice_coss"`
	Pembulatan                    float64 `json:"pembulatan"`
	PembulatanCoss                float64 `json:"pembulatan_coss"`
	PembulatanDisplay             string  `json:"pembulatan_display"`
	PembulatanCossDisplay         string  `json:"pembulatan_coss_display"`
	Margin                        float64 `json:"margin"`
	MarginCoss                    float64 `json:"margin_coss"`
	GPM                           float64 `json:"gpm"`
	GPMCoss                       float64 `json:"gpm_coss"`

	TotalBaseManpower      float64 `json:"total_base_manpower"`
	TotalBaseManpowerCoss  float64 `json:"total_base_manpower_coss"`
	UpahPokok              float64 `json:"upah_pokok"`
	UpahPokokCoss          float64 `json:"upah_pokok_coss"`
	TotalBPJS              float64 `json:"total_bpjs"`
	TotalBPJSCoss          float64 `json:"total_bpjs_coss"`
	TotalBPJSKesehatan     float64 `json:"total_bpjs_kesehatan"`
	TotalBPJSKesehatanCoss float64 `json:"total_bpjs_kesehatan_coss"`

	BungaBankTotal            float64 `json:"bunga_bank_total"`
	InsentifTotal             float64 `json:"insentif_total"`
	PersenBPJSKetenagakerjaan float64 `json:"persen_bpjs_ketenagakerjaan"`
	PersenBPJSKesehatan       float64 `json:"persen_bpjs_kesehatan"`
	TotalPotonganBPU          float64 `json:"total_potongan_bpu"`
	PotonganBPUPerOrang       float64 `json:"potongan_bpu_per_orang"`

	JumlahHC        int            `json:"jumlah_hc"`
	Provisi         int            `json:"provisi"`
	BackfilledWages int            `json:"backfilled_wages"`
	Details         []DetailTotals `json:"details"`
}

// DetailTotals is the headline of one priced detail line.
type DetailTotals struct {
	QuotationDetailID    int64   `json:"quotation_detail_id"`
	JumlahHC             int     `json:"jumlah_hc"`
	TotalPersonil        float64 `json:"total_personil"`
	SubTotalPersonil     float64 `json:"sub_total_personil"`
	TotalPersonilCoss    float64 `json:"total_personil_coss"`
	SubTotalPersonilCoss float64 `json:"sub_total_personil_coss"`
}

// FromResult flattens a calculation result for q.
func FromResult(q *model.Quotation, res *pricing.Result) CalculationSummary {
	s := res.Summary
	hpp, coss := s.HPP, s.COSS

	out := CalculationSummary{
		QuotationID: res.QuotationID,
		RunID:       res.RunID,

		TotalSebelumManagementFee:     hpp.TotalBeforeFee,
		TotalSebelumManagementFeeCoss: coss.TotalBeforeFee,
		NominalManagementFee:          hpp.ManagementFee,
		NominalManagementFeeCoss:      coss.ManagementFee,
		GrandTotalSebelumPajak:        hpp.GrandTotalBeforeTax,
		GrandTotalSebelumPajakCoss:    coss.GrandTotalBeforeTax,
		DPP:                           hpp.DPP,
		DPPCoss:                       coss.DPP,
		PPN:                           hpp.PPN,
		PPNCoss:                       coss.PPN,
		PPH:                           hpp.PPH,
		PPHCoss:                       coss.PPH,
		TotalInvoice:                  hpp.TotalInvoice,
		TotalInvoiceCoss:              coss.TotalInvoice,
		Pembulatan:                    hpp.Rounded,
		PembulatanCoss:                coss.Rounded,
		PembulatanDisplay:             FormatRupiah(hpp.Rounded),
		PembulatanCossDisplay:         FormatRupiah(coss.Rounded),
		Margin:                        hpp.Margin,
		MarginCoss:                    coss.Margin,
		GPM:                           hpp.GPM,
		GPMCoss:                       coss.GPM,

		TotalBaseManpower:      hpp.TotalBaseManpower,
		TotalBaseManpowerCoss:  coss.TotalBaseManpower,
		UpahPokok:              hpp.BaseWageTotal,
		UpahPokokCoss:          coss.BaseWageTotal,
		TotalBPJS:              hpp.TotalBPJS,
		TotalBPJSCoss:          coss.TotalBPJS,
		TotalBPJSKesehatan:     hpp.TotalBPJSKesehatan,
		TotalBPJSKesehatanCoss: coss.TotalBPJSKesehatan,

		BungaBankTotal:            s.BankFeeTotal,
		InsentifTotal:             s.IncentiveTotal,
		PersenBPJSKetenagakerjaan: s.PersenBPJSKetenagakerjaan,
		PersenBPJSKesehatan:       s.PersenBPJSKesehatan,
		TotalPotonganBPU:          s.TotalBPUDeduction,
		PotonganBPUPerOrang:       s.BPUDeductionPerPerson,

		JumlahHC:        s.Headcount,
		Provisi:         s.ContractMonths,
		BackfilledWages: res.BackfilledWages,
		Details:         make([]DetailTotals, 0, len(res.Lines)),
	}
	if q != nil {
		out.ManagementFeeLabel = q.ManagementFeeLabel
	}

	for _, l := range res.Lines {
		out.Details = append(out.Details, DetailTotals{
			QuotationDetailID:    l.DetailID,
			JumlahHC:             l.Headcount,
			TotalPersonil:        l.TotalPersonil,
			SubTotalPersonil:     l.SubTotalPersonil,
			TotalPersonilCoss:    l.TotalPersonilCoss,
			SubTotalPersonilCoss: l.SubTotalPersonilCoss,
		})
	}

	return out
}
