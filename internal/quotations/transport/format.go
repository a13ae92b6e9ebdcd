package transport

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount as whole rupiah with Indonesian digit grouping,
// e.g. "Rp 12.346.000".
func FormatRupiah(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-Rp " + rupiahPrinter.Sprintf("%d", -n)
	}
	return "Rp " + rupiahPrinter.Sprintf("%d", n)
}
