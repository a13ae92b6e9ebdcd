package transport

import (
	"testing"

	"sales_quotation_backend/internal/quotations/model"
	"sales_quotation_backend/internal/quotations/pricing"
)

func TestFromResult_FlattensViews(t *testing.T) {
	q := &model.Quotation{ID: 5, ManagementFeeLabel: "Total Base Manpower"}
	res := &pricing.Result{
		QuotationID: 5,
		RunID:       "run-5",
		Summary:     pricing.Summary{
			HPP:          pricing.CostView{TotalBeforeFee: 11_093_840, Rounded: 12_200_000},
			COSS:         pricing.CostView{TotalBeforeFee: 10_984_000, Rounded: 12_074_000, Margin: 890_160},
			BankFeeTotal: 54_920,
			Headcount:    2,
		},
		Lines: []pricing.Line{{DetailID: 9, Headcount: 2, TotalPersonil: 5_546_920, TotalPersonilCoss: 5_492_000}},
	}

	out := FromResult(q, res)

	if out.ManagementFeeLabel != "Total Base Manpower" {
		t.Fatalf("expected fee label to be carried, got %q", out.ManagementFeeLabel)
	}
	if out.TotalSebelumManagementFee != 11_093_840 || out.TotalSebelumManagementFeeCoss != 10_984_000 {
		t.Fatalf("unexpected totals before fee: %v / %v", out.TotalSebelumManagementFee, out.TotalSebelumManagementFeeCoss)
	}
	if out.PembulatanCossDisplay != "Rp 12.074.000" {
		t.Fatalf("expected formatted coss rounding, got %q", out.PembulatanCossDisplay)
	}
	if out.MarginCoss != 890_160 || out.BungaBankTotal != 54_920 || out.JumlahHC != 2 {
		t.Fatalf("unexpected summary fields: %+v", out)
	}
	if len(out.Details) != 1 || out.Details[0].QuotationDetailID != 9 || out.Details[0].TotalPersonilCoss != 5_492_000 {
		t.Fatalf("unexpected detail totals: %+v", out.Details)
	}
}

func TestFromResult_EmptyResultHasNoDetails(t *testing.T) {
	out := FromResult(nil, &pricing.Result{QuotationID: 1, RunID: "r"})

	if out.Details == nil || len(out.Details) != 0 {
		t.Fatalf("expected empty non-nil details, got %#v", out.Details)
	}
	if out.PembulatanDisplay != "Rp 0" {
		t.Fatalf("expected zero display, got %q", out.PembulatanDisplay)
	}
}
