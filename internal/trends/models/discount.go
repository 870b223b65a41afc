package models

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DiscountPercent is round((1 - special/original) * 100). It is defined only when
// original is positive and strictly greater than special; a free item is 100.
func DiscountPercent(special decimal.Decimal, original *decimal.Decimal) (int, bool) {
	if original == nil || !original.IsPositive() || !original.GreaterThan(special) || special.IsNegative() {
		return 0, false
	}
	pct := decimal.NewFromInt(1).Sub(special.Div(*original)).Mul(hundred).Round(0)
	return int(pct.IntPart()), true
}
