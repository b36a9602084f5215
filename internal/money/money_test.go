package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSessionCost(t *testing.T) {
	rate := MustParse("50")

	// 90 minutes at 50/hr is exactly 75.00.
	require.True(t, MustParse("75").Equal(SessionCost(rate, 90)))

	// One hour exactly.
	require.True(t, rate.Equal(SessionCost(rate, 60)))

	// Sub-hour proration.
	require.True(t, MustParse("25").Equal(SessionCost(rate, 30)))

	// Non-terminating division rounds to two places: 50/hr for 1 minute.
	require.True(t, MustParse("0.83").Equal(SessionCost(rate, 1)))
}

func TestSessionCost_NonPositiveMinutes(t *testing.T) {
	rate := MustParse("120.50")
	require.True(t, SessionCost(rate, 0).IsZero())
	require.True(t, SessionCost(rate, -5).IsZero())
}

func TestLine(t *testing.T) {
	unit := MustParse("10.00")
	require.True(t, MustParse("20").Equal(Line(2, unit)))
	require.True(t, Line(0, unit).IsZero())
}

func TestParseRoundTrip(t *testing.T) {
	d, err := Parse("1234.56")
	require.NoError(t, err)
	require.Equal(t, "1234.56", d.String())

	_, err = Parse("not money")
	require.Error(t, err)
}

func TestRepeatedAdditionHasNoDrift(t *testing.T) {
	total := Zero()
	step := MustParse("0.10")
	for i := 0; i < 1000; i++ {
		total = total.Add(step)
	}
	require.True(t, MustParse("100").Equal(total))
	require.True(t, decimal.Zero.Equal(total.Sub(MustParse("100"))))
}
