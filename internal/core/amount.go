// Package core defines the finance tracker's domain types: transactions,
// budgets, month windows and amount parsing.
//
// Amounts are decimal values throughout; float64 is never used for money.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user supplied amount string to a decimal value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Explicit signs are rejected, amounts are always entered as positive
// magnitudes. Returns ErrInvalidAmount for anything that does not parse
// to a non-negative decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
