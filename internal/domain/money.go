package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amounts travel the wire as decimal strings ("30.00") and are stored as
// int64 minor units. Two fractional digits, no more.
const AmountScale = 2

// MaxBalance is the largest supported balance in minor units (99,999,999.99).
const MaxBalance int64 = 9_999_999_999

var minorUnitsFactor = decimal.New(1, AmountScale)

// ParseAmount converts a transfer amount into minor units. Amounts must be
// strictly positive, carry at most two fractional digits, and not exceed
// MaxBalance.
func ParseAmount(s string) (int64, error) {
	n, err := parseMinorUnits(s)
	if err != nil {
		return 0, fmt.Errorf("ParseAmount: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("ParseAmount: %q: %w", s, ErrInvalidAmount)
	}
	return n, nil
}

// ParseBalance is ParseAmount with zero permitted, used for initial balances
// at account creation.
func ParseBalance(s string) (int64, error) {
	n, err := parseMinorUnits(s)
	if err != nil {
		return 0, fmt.Errorf("ParseBalance: %w", ErrInvalidBalance)
	}
	if n < 0 {
		return 0, fmt.Errorf("ParseBalance: %q: %w", s, ErrInvalidBalance)
	}
	return n, nil
}

// FormatAmount renders minor units as a two-decimal string.
func FormatAmount(n int64) string {
	return decimal.New(n, -AmountScale).StringFixed(AmountScale)
}

func parseMinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parseMinorUnits: %q: %w", s, ErrInvalidAmount)
	}

	units := d.Mul(minorUnitsFactor)
	if !units.IsInteger() {
		return 0, fmt.Errorf("parseMinorUnits: %q has more than %d fractional digits: %w", s, AmountScale, ErrInvalidAmount)
	}
	if units.Abs().GreaterThan(decimal.NewFromInt(MaxBalance)) {
		return 0, fmt.Errorf("parseMinorUnits: %q out of range: %w", s, ErrInvalidAmount)
	}

	return units.IntPart(), nil
}
