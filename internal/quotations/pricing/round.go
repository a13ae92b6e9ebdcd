package pricing

import (
	"fmt"

	"sales_quotation_backend/platform/apperr"

	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// ceilThousand rounds up to the next multiple of 1000.
func ceilThousand(v float64) float64 {
	return decimal.NewFromFloat(v).Div(thousand).Ceil().Mul(thousand).InexactFloat64()
}

// divide fails on a zero divisor instead of producing Inf.
func divide(num, den float64, what string) (float64, error) {
	if den == 0 {
		return 0, apperr.Validation(fmt.Sprintf("division by zero: %s is 0", what))
	}
	return num / den, nil
}

// resolve returns the pinned value when set, otherwise the computed one.
func resolve(pinned *float64, computed float64) float64 {
	if pinned != nil {
		return *pinned
	}
	return computed
}
