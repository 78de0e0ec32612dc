package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Indian numbering thresholds.
var (
	oneLakh  = decimal.NewFromInt(100_000)
	oneCrore = decimal.NewFromInt(10_000_000)
)

// CoerceDecimal parses a numeric string into a decimal, treating missing or
// malformed values as zero. Legacy records mix empty strings and free-form
// numbers in optional fields; coercion happens once at the boundary so the
// ledger arithmetic never re-checks.
func CoerceDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// RoundMoney rounds to two decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatINR renders an amount in rupees with lakh/crore abbreviation for
// display. Negative amounts keep the sign in front of the rupee symbol.
func FormatINR(d decimal.Decimal) string {
	sign := ""
	abs := d
	if d.IsNegative() {
		sign = "-"
		abs = d.Neg()
	}

	switch {
	case abs.GreaterThanOrEqual(oneCrore):
		return fmt.Sprintf("%s₹%s Cr", sign, abs.Div(oneCrore).Round(2).String())
	case abs.GreaterThanOrEqual(oneLakh):
		return fmt.Sprintf("%s₹%s L", sign, abs.Div(oneLakh).Round(2).String())
	default:
		return fmt.Sprintf("%s₹%s", sign, abs.Round(2).String())
	}
}
