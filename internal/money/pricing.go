package money

import "github.com/shopspring/decimal"

var sixty = decimal.NewFromInt(60)

// SessionCost prorates an hourly rate over a duration in whole minutes.
// The proration is continuous: no minimum charge and no rounding to
// billing increments. Fractional minutes are expected to be truncated
// by the caller. The result is rounded to two decimal places.
func SessionCost(hourlyRate decimal.Decimal, minutes int64) decimal.Decimal {
	if minutes <= 0 {
		return decimal.Zero
	}
	return hourlyRate.Mul(decimal.NewFromInt(minutes)).Div(sixty).Round(2)
}
