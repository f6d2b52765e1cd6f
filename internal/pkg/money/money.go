// Package money holds the decimal arithmetic shared by the billing, usage and
// checkout paths. Amounts and quantities travel as decimal strings and are
// never converted to floating point.
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	"petcare/internal/pkg/apperr"
)

var hundred = decimal.NewFromInt(100)

// Parse normalizes a user supplied decimal string. Both "12.5" and "12,5" are
// accepted; when both separators are present the last one is the decimal mark.
func Parse(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if s == "" {
		return decimal.Zero, apperr.Validation("empty decimal value")
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Validation("invalid decimal value %q", raw)
	}
	return d, nil
}

// ParsePositive parses raw and rejects zero or negative values.
func ParsePositive(field, raw string) (decimal.Decimal, error) {
	d, err := Parse(raw)
	if err != nil {
		return decimal.Zero, apperr.Validation("%s: invalid decimal value %q", field, raw)
	}
	if !d.IsPositive() {
		return decimal.Zero, apperr.Validation("%s must be positive", field)
	}
	return d, nil
}

// ParseOptional parses raw when present. Blank input yields an invalid NullDecimal.
func ParseOptional(field string, raw *string) (decimal.NullDecimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := Parse(*raw)
	if err != nil {
		return decimal.NullDecimal{}, apperr.Validation("%s: invalid decimal value %q", field, *raw)
	}
	return decimal.NewNullDecimal(d), nil
}

// OrZero treats a missing value as zero.
func OrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Discount returns the effective discount for a subtotal. A positive percent
// wins over the absolute amount. The result never exceeds the subtotal.
func Discount(subtotal, percent, amount decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	if percent.IsPositive() {
		d = subtotal.Mul(percent).Div(hundred).Round(0)
	} else {
		d = amount
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(subtotal) && !subtotal.IsNegative() {
		return subtotal
	}
	return d
}

// Net applies Discount and clamps the result at zero.
func Net(subtotal, percent, amount decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, subtotal.Sub(Discount(subtotal, percent, amount)))
}

// AfterPercent is total*(1-percent/100) without rounding.
func AfterPercent(total, percent decimal.Decimal) decimal.Decimal {
	return total.Mul(hundred.Sub(percent)).Div(hundred)
}

// ClampPercent bounds p to the 0..100 range.
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// PriceLookup returns the current catalog price and whether one exists.
type PriceLookup func() (decimal.Decimal, bool)

// ResolvePrice prefers the snapshotted unit price and falls back to the
// catalog. Missing both yields zero.
func ResolvePrice(snapshot decimal.NullDecimal, catalog PriceLookup) decimal.Decimal {
	if snapshot.Valid {
		return snapshot.Decimal
	}
	if catalog != nil {
		if p, ok := catalog(); ok {
			return p
		}
	}
	return decimal.Zero
}
