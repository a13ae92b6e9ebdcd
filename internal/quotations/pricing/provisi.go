package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"sales_quotation_backend/internal/quotations/model"
)

var leadingMonths = regexp.MustCompile(`^\s*(\d+)`)

// ContractMonths returns the amortization divisor for a contract duration.
// Year-denominated or missing durations amortize over 12 months; "6 bulan" gives 6.
// Unparseable text gives 0, which fails later if any goods need amortizing.
func ContractMonths(duration *string) int {
	if duration == nil || strings.TrimSpace(*duration) == "" {
		return 12
	}
	d := strings.ToLower(*duration)
	if strings.Contains(d, model.ContractDurationYearWord) {
		return 12
	}
	m := leadingMonths.FindStringSubmatch(d)
	if len(m) < 2 {
		return 0
	}
	months, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return months
}
