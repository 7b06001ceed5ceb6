// Package money formats dollar amounts and month counts for display.
package money

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// USD formats an amount as whole dollars with thousands separators, e.g. "$60,000".
func USD(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-$" + humanize.Comma(-rounded)
	}
	return "$" + humanize.Comma(rounded)
}

// Short formats an amount in thousands, e.g. "$60k", used where space is tight.
func Short(amount float64) string {
	if math.Abs(amount) >= 1_000_000 {
		return fmt.Sprintf("$%.2fM", amount/1_000_000)
	}
	if math.Abs(amount) >= 1000 {
		return fmt.Sprintf("$%.0fk", amount/1000)
	}
	return fmt.Sprintf("$%.0f", amount)
}

// Months formats a month count with one decimal.
func Months(m float64) string {
	return fmt.Sprintf("%.1f months", m)
}

// Percent formats a fraction as a percentage with one decimal.
func Percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}
