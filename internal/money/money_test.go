package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     int64
	}{
		{"49.99", "USD", 4999},
		{"49.99", "usd", 4999},
		{"0.01", "EUR", 1},
		{"10.005", "GBP", 1001},
		{"1500", "JPY", 1500},
		{"1500.5", "jpy", 1501},
		{"1499.4", "KRW", 1499},
		{"0", "USD", 0},
	}

	for _, tt := range tests {
		t.Run(tt.amount+"_"+tt.currency, func(t *testing.T) {
			got := ToMinorUnits(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range ZeroDecimalCurrencies {
		for _, v := range []int64{0, 1, 99, 1500, 123456} {
			amount := decimal.NewFromInt(v)
			assert.True(t, amount.Equal(FromMinorUnits(ToMinorUnits(amount, c), c)), "%s %d", c, v)
		}
	}

	for _, c := range []string{"USD", "EUR", "GBP", "AUD"} {
		for _, s := range []string{"0", "0.01", "0.1", "49.99", "199", "1234.56"} {
			amount := decimal.RequireFromString(s)
			assert.True(t, amount.Equal(FromMinorUnits(ToMinorUnits(amount, c), c)), "%s %s", c, s)
		}
	}
}

func TestIsZeroDecimal(t *testing.T) {
	assert.True(t, IsZeroDecimal(" jpy "))
	assert.False(t, IsZeroDecimal("USD"))
	assert.False(t, IsZeroDecimal(""))
}
