package pricing

import (
	"context"
	"errors"
	"math"
	"testing"

	"sales_quotation_backend/internal/quotations/model"
)

func ptr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func idPtr(v int64) *int64 { return &v }

func assertMoney(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("expected %s %.2f, got %.2f", name, want, got)
	}
}

// fakeStore serves a fixed graph, handing out fresh copies on every load.
type fakeStore struct {
	details []model.Detail
	sites   []model.Site
	goods   model.Goods
	wages   map[int64]*model.Wage
	wageErr error
	loadErr error
	created int
}

func newFakeStore(details ...model.Detail) *fakeStore {
	return &fakeStore{
		details: details,
		sites:   []model.Site{{ID: 1, QuotationID: 1, Name: "Jakarta", UMK: 4_500_000, UMP: 4_000_000}},
		wages:   make(map[int64]*model.Wage),
	}
}

func (s *fakeStore) ListDetails(_ context.Context, _ int64) ([]model.Detail, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]model.Detail, len(s.details))
	for i, d := range s.details {
		d.Allowances = append([]model.Allowance(nil), d.Allowances...)
		if d.Wage == nil {
			if w, ok := s.wages[d.ID]; ok {
				copied := *w
				d.Wage = &copied
			}
		}
		out[i] = d
	}
	return out, nil
}

func (s *fakeStore) ListSites(_ context.Context, _ int64) ([]model.Site, error) {
	return append([]model.Site(nil), s.sites...), nil
}

func (s *fakeStore) ListGoods(_ context.Context, _ int64) (model.Goods, error) {
	return s.goods, nil
}

func (s *fakeStore) CreateWage(_ context.Context, w *model.Wage) error {
	s.created++
	if s.wageErr != nil {
		return s.wageErr
	}
	copied := *w
	s.wages[w.DetailID] = &copied
	return nil
}

var errStoreDown = errors.New("store down")

func baseQuotation() *model.Quotation {
	return &model.Quotation{
		ID:               1,
		ManagementFeeID:  FeeOnBaseManpower,
		ManagementFeePct: 10,
		IsPPN:            model.PPNYes,
		TaxDeductedOn:    model.TaxBaseManagementFee,
		ProgramBPJS:      model.ProgramBPJSNormal,
		BankInterestPct:  1,
		PaymentTerms:     "30 Hari",
		ContractDuration: strPtr("1 tahun"),
	}
}

func baseDetail(id int64, headcount int, wage float64) model.Detail {
	return model.Detail{
		ID:            id,
		QuotationID:   1,
		SiteID:        1,
		PositionName:  "Security",
		Headcount:     headcount,
		BaseWage:      wage,
		UMK:           4_500_000,
		UMP:           4_000_000,
		IsBPJSJKK:     "1",
		IsBPJSJKM:     "1",
		IsBPJSJHT:     "1",
		IsBPJSJP:      "1",
		HealthInsurer: model.HealthInsurerBPJS,
		Wage:          model.DefaultWage(1, id),
	}
}

func newTestCalculator(q *model.Quotation, details []model.Detail, goods model.Goods, headcount, months int) *componentCalculator {
	sites := []model.Site{{ID: 1, UMK: 4_500_000, UMP: 4_000_000}}
	return newComponentCalculator(q, DefaultRates(), details, sites, goods, headcount, months)
}
