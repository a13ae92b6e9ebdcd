package validator

import (
	"testing"

	"sales_quotation_backend/platform/apperr"
)

type sample struct {
	Rate  float64 `db:"persen_bunga_bank" validate:"gte=0,lte=100"`
	Terms string  `db:"is_ppn" validate:"omitempty,oneof=Ya Tidak"`
	Count int     `validate:"gte=0"`
}

func TestCheck_Valid(t *testing.T) {
	v := New()
	if err := v.Check(sample{Rate: 2.5, Terms: "Ya"}, "quotation"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Check(sample{}, "quotation"); err != nil {
		t.Fatalf("expected empty optional fields to pass, got %v", err)
	}
}

func TestCheck_ReportsColumnNames(t *testing.T) {
	v := New()

	err := v.Check(sample{Rate: 120, Terms: "Mungkin", Count: -1}, "quotation")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var appErr *apperr.Error
	appErr, _ = err.(*apperr.Error)
	fields, ok := appErr.Details.([]FieldError)
	if !ok || len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %#v", appErr.Details)
	}
	if fields[0].Field != "persen_bunga_bank" || fields[0].Rule != "lte" || fields[0].Param != "100" {
		t.Fatalf("unexpected first field error: %+v", fields[0])
	}
	if fields[1].Field != "is_ppn" || fields[1].Rule != "oneof" {
		t.Fatalf("unexpected second field error: %+v", fields[1])
	}
	if fields[2].Field != "Count" {
		t.Fatalf("expected untagged field to keep its Go name, got %+v", fields[2])
	}
}
