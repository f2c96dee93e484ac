package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts accepted by ParseDate
const (
	ISODateLayout   = "2006-01-02"
	ShortDateLayout = "01/02/06"
)

var hundred = decimal.NewFromInt(100)

// Charges is the money side of a rental agreement
type Charges struct {
	PreDiscount decimal.Decimal
	Discount    decimal.Decimal
	Final       decimal.Decimal
}

// ParseDate converts a yyyy-mm-dd or mm/dd/yy formatted string into a calendar date
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	layout := ISODateLayout
	if strings.Contains(dateStr, "/") {
		layout = ShortDateLayout
	}
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd or mm/dd/yy: %w", err)
	}
	return t, nil
}

// DateOf strips the clock and zone from t, leaving midnight UTC of the same calendar day
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DueDate is the checkout date plus rentalDays calendar days
func DueDate(checkoutDate time.Time, rentalDays int) time.Time {
	return DateOf(checkoutDate).AddDate(0, 0, rentalDays)
}

// RoundHalfUp rounds an amount to cents, halves away from zero
func RoundHalfUp(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Price turns a charge day count into the pre-discount charge, discount amount and
// final charge. The discount is taken from the already rounded pre-discount charge
// and the final charge is a plain subtraction of the two rounded amounts.
// discountPercent must already be within [0, 100].
func Price(chargeDays int, dailyCharge decimal.Decimal, discountPercent int) Charges {
	preDiscount := RoundHalfUp(dailyCharge.Mul(decimal.NewFromInt(int64(chargeDays))))
	discount := RoundHalfUp(preDiscount.Mul(decimal.NewFromInt(int64(discountPercent))).Div(hundred))

	return Charges{
		PreDiscount: preDiscount,
		Discount:    discount,
		Final:       preDiscount.Sub(discount),
	}
}
