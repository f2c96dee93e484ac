// Package report renders rental agreements for the counter printout.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/utils"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatAgreement returns one "Label: value" line per agreement field.
// Money is US currency with grouping ($1,444.74) and dates are mm/dd/yy.
func FormatAgreement(a *domain.RentalAgreement) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("Tool code: %s", a.ToolCode)
	line("Tool type: %s", a.ToolCategory.DisplayName())
	line("Tool brand: %s", a.ToolBrand.DisplayName())
	line("Rental days: %d", a.RentalDays)
	line("Checkout date: %s", a.CheckoutDate.Format(utils.ShortDateLayout))
	line("Due date: %s", a.DueDate.Format(utils.ShortDateLayout))
	line("Daily rental charge: %s", Currency(a.DailyCharge))
	line("Charge days: %d", a.ChargeDays)
	line("Pre-discount charge: %s", Currency(a.PreDiscountCharge))
	line("Discount percent: %d%%", a.DiscountPercent)
	line("Discount amount: %s", Currency(a.DiscountAmount))
	line("Final charge: %s", Currency(a.FinalCharge))
	return b.String()
}

// Currency formats a cent-precision amount as US dollars. Only the whole
// dollars go through the locale printer so cents stay exact.
func Currency(amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	cents := fixed[strings.IndexByte(fixed, '.'):]
	return sign + "$" + printer.Sprint(number.Decimal(amount.IntPart())) + cents
}
