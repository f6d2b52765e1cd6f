package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare/internal/pkg/apperr"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParse(t *testing.T) {
	cases := map[string]string{
		"10":       "10",
		" 12.5 ":   "12.5",
		"12,5":     "12.5",
		"1.500,25": "1500.25",
		"1,500.25": "1500.25",
		"-0,04":    "-0.04",
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(d(want)), "%s -> %s", in, got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3,4,5"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, apperr.ErrValidation, in)
	}
}

func TestParsePositive(t *testing.T) {
	_, err := ParsePositive("quantity", "0")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = ParsePositive("quantity", "-3")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	q, err := ParsePositive("quantity", "2,5")
	require.NoError(t, err)
	assert.True(t, q.Equal(d("2.5")))
}

func TestParseOptional(t *testing.T) {
	got, err := ParseOptional("unitPrice", nil)
	require.NoError(t, err)
	assert.False(t, got.Valid)

	blank := "  "
	got, err = ParseOptional("unitPrice", &blank)
	require.NoError(t, err)
	assert.False(t, got.Valid)

	v := "15000"
	got, err = ParseOptional("unitPrice", &v)
	require.NoError(t, err)
	assert.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(d("15000")))
}

func TestDiscountPercentWins(t *testing.T) {
	assert.True(t, Discount(d("1000"), d("30"), d("0")).Equal(d("300")))
	assert.True(t, Net(d("1000"), d("30"), d("0")).Equal(d("700")))
	assert.True(t, Net(d("1000"), d("30"), d("999")).Equal(d("700")))
}

func TestDiscountAmountClampsAtZero(t *testing.T) {
	assert.True(t, Net(d("1000"), d("0"), d("1500")).IsZero())
	assert.True(t, Discount(d("1000"), d("0"), d("1500")).Equal(d("1000")))
}

func TestAfterPercentIsExact(t *testing.T) {
	assert.True(t, AfterPercent(d("201"), d("10")).Equal(d("180.9")))
	assert.True(t, AfterPercent(d("333"), d("0")).Equal(d("333")))
	assert.True(t, AfterPercent(d("333"), d("100")).IsZero())
}

func TestDiscountRoundsToWholeUnits(t *testing.T) {
	assert.True(t, Discount(d("333"), d("10"), d("0")).Equal(d("33")))
	assert.True(t, Discount(d("335"), d("10"), d("0")).Equal(d("34")))
}

func TestClampPercent(t *testing.T) {
	assert.True(t, ClampPercent(d("-5")).IsZero())
	assert.True(t, ClampPercent(d("150")).Equal(d("100")))
	assert.True(t, ClampPercent(d("12.5")).Equal(d("12.5")))
}

func TestResolvePrice(t *testing.T) {
	catalog := func() (decimal.Decimal, bool) { return d("42"), true }
	missing := func() (decimal.Decimal, bool) { return decimal.Zero, false }

	assert.True(t, ResolvePrice(decimal.NewNullDecimal(d("10")), catalog).Equal(d("10")))
	assert.True(t, ResolvePrice(decimal.NullDecimal{}, catalog).Equal(d("42")))
	assert.True(t, ResolvePrice(decimal.NullDecimal{}, missing).IsZero())
	assert.True(t, ResolvePrice(decimal.NullDecimal{}, nil).IsZero())
}
