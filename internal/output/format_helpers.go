package output

import (
	"math"

	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in
// isolation.
func FormatCurrency(amount decimal.Decimal) string { return "$" + amount.StringFixed(2) }

// FormatQALY formats a QALY total with 4 decimals.
func FormatQALY(qaly float64) string { return decimal.NewFromFloat(qaly).StringFixed(4) }

// FormatICER renders the ICER, or "undefined" when the incremental QALY was
// zero and the ratio carries the infinity sentinel.
func FormatICER(icer float64, undefined bool) string {
	if undefined || math.IsInf(icer, 0) || math.IsNaN(icer) {
		return "undefined (incremental QALY is zero)"
	}
	return FormatCurrency(decimal.NewFromFloat(icer)) + "/QALY"
}
