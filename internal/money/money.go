// Package money converts display amounts to and from the integer minor units
// the payment processor expects.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ZeroDecimalCurrencies have no minor unit; Stripe takes their amounts as-is.
var ZeroDecimalCurrencies = []string{
	"BIF", "CLP", "DJF", "GNF", "JPY", "KMF", "KRW", "MGA",
	"PYG", "RWF", "UGX", "VND", "VUV", "XAF", "XOF", "XPF",
}

var zeroDecimal = func() map[string]struct{} {
	m := make(map[string]struct{}, len(ZeroDecimalCurrencies))
	for _, c := range ZeroDecimalCurrencies {
		m[c] = struct{}{}
	}
	return m
}()

var hundred = decimal.NewFromInt(100)

func IsZeroDecimal(currency string) bool {
	_, ok := zeroDecimal[strings.ToUpper(strings.TrimSpace(currency))]
	return ok
}

// ToMinorUnits rounds half away from zero.
func ToMinorUnits(amount decimal.Decimal, currency string) int64 {
	if IsZeroDecimal(currency) {
		return amount.Round(0).IntPart()
	}
	return amount.Mul(hundred).Round(0).IntPart()
}

func FromMinorUnits(minor int64, currency string) decimal.Decimal {
	if IsZeroDecimal(currency) {
		return decimal.NewFromInt(minor)
	}
	return decimal.New(minor, -2)
}
