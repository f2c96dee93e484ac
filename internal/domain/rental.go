package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentalAgreement holds the billing terms produced by a successful checkout.
// It is built once by the checkout service and never modified afterwards.
type RentalAgreement struct {
	ID                string          `json:"id"`
	ToolCode          string          `json:"tool_code"`
	ToolCategory      ToolCategory    `json:"tool_category"`
	ToolBrand         ToolBrand       `json:"tool_brand"`
	RentalDays        int             `json:"rental_days"`
	ChargeDays        int             `json:"charge_days"`
	CheckoutDate      time.Time       `json:"checkout_date"`
	DueDate           time.Time       `json:"due_date"`
	DailyCharge       decimal.Decimal `json:"daily_charge"`
	PreDiscountCharge decimal.Decimal `json:"pre_discount_charge"`
	DiscountPercent   int             `json:"discount_percent"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	FinalCharge       decimal.Decimal `json:"final_charge"`
	CreatedOn         time.Time       `json:"created_on"`
}

type RentalStatus string

const (
	RentalStatusOut      RentalStatus = "OUT"
	RentalStatusOverdue  RentalStatus = "OVERDUE"
	RentalStatusReturned RentalStatus = "RETURNED"
)

// Rental tracks the lifecycle of a stored agreement. The agreement terms stay
// fixed; only Status and the timestamps move.
type Rental struct {
	Agreement  RentalAgreement `json:"agreement"`
	Status     RentalStatus    `json:"status"`
	ReturnedOn *time.Time      `json:"returned_on,omitempty"`
	UpdatedOn  time.Time       `json:"updated_on"`
}
