package render

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var grouped = message.NewPrinter(language.English)

// FormatCurrency renders a monetary amount for the financial summary table:
// magnitudes of a billion or more as "X.XXB", a million or more as "X.XXM",
// anything else grouped with thousands separators; all suffixed with the
// currency code when one is known.
func FormatCurrency(v float64, currency string) string {
	abs := math.Abs(v)
	var s string
	switch {
	case abs >= 1e9:
		s = fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		s = fmt.Sprintf("%.2fM", v/1e6)
	default:
		s = grouped.Sprintf("%d", int64(math.Round(v)))
	}
	if currency != "" {
		s += " " + currency
	}
	return s
}
