// Package money holds the shared monetary helpers. All amounts are
// decimal.Decimal values persisted as exact decimal text, never floats.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Zero returns a zero amount.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// Parse converts a stored decimal string back into an amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid money value %q: %w", s, err)
	}
	return d, nil
}

// MustParse is Parse for literals in tests and seed data.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Line computes a line amount: quantity times unit price.
func Line(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
