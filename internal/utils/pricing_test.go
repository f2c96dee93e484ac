package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("ISO date", func(t *testing.T) {
		d, err := ParseDate("2015-09-03")
		require.NoError(t, err)
		assert.Equal(t, date(2015, time.September, 3), d)
	})

	t.Run("Short US date", func(t *testing.T) {
		d, err := ParseDate("07/02/20")
		require.NoError(t, err)
		assert.Equal(t, date(2020, time.July, 2), d)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})

	t.Run("Invalid month", func(t *testing.T) {
		_, err := ParseDate("2024-13-15")
		assert.Error(t, err)
	})
}

func TestDueDate(t *testing.T) {
	assert.Equal(t, date(2020, time.July, 5), DueDate(date(2020, time.July, 2), 3))
	assert.Equal(t, date(2019, time.December, 31), DueDate(date(2017, time.December, 31), 730))
	assert.Equal(t, date(2024, time.March, 1), DueDate(date(2024, time.February, 28), 2))
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name        string
		chargeDays  int
		dailyCharge string
		discount    int
		preDiscount string
		amount      string
		final       string
	}{
		{"Ladder 10%", 2, "1.99", 10, "3.98", "0.40", "3.58"},
		{"Chainsaw 25%", 3, "1.49", 25, "4.47", "1.12", "3.35"},
		{"Jackhammer no discount", 3, "2.99", 0, "8.97", "0.00", "8.97"},
		{"Jackhammer 50% rounds half up", 1, "2.99", 50, "2.99", "1.50", "1.49"},
		{"Jackhammer nine days", 5, "2.99", 0, "14.95", "0.00", "14.95"},
		{"Ladder multi year", 726, "1.99", 10, "1444.74", "144.47", "1300.27"},
		{"Full discount", 7, "2.99", 100, "20.93", "20.93", "0.00"},
		{"No charge days", 0, "2.99", 20, "0.00", "0.00", "0.00"},
		{"Sub-cent daily charge", 3, "0.335", 0, "1.01", "0.00", "1.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Price(tt.chargeDays, decimal.RequireFromString(tt.dailyCharge), tt.discount)
			assert.Equal(t, tt.preDiscount, c.PreDiscount.StringFixed(2))
			assert.Equal(t, tt.amount, c.Discount.StringFixed(2))
			assert.Equal(t, tt.final, c.Final.StringFixed(2))
		})
	}
}

func TestPrice_DiscountBounds(t *testing.T) {
	daily := decimal.RequireFromString("2.99")
	for days := 0; days <= 40; days++ {
		none := Price(days, daily, 0)
		assert.True(t, none.Discount.IsZero())
		assert.True(t, none.Final.Equal(none.PreDiscount))

		full := Price(days, daily, 100)
		assert.True(t, full.Final.IsZero())

		for pct := 0; pct <= 100; pct += 7 {
			c := Price(days, daily, pct)
			assert.True(t, c.Final.Equal(c.PreDiscount.Sub(c.Discount)))
			assert.False(t, c.Final.IsNegative())
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"1.495", "1.50"},
		{"1.1175", "1.12"},
		{"0.398", "0.40"},
		{"144.474", "144.47"},
		{"2.005", "2.01"},
		{"2.004999", "2.00"},
	}

	for _, tt := range tests {
		once := RoundHalfUp(decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.expected, once.StringFixed(2), tt.in)
		assert.True(t, once.Equal(RoundHalfUp(once)), "rounding must be idempotent for %s", tt.in)
	}
}
