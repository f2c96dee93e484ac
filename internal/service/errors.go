package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrToolNotFound    = errors.New("tool not found")
	ErrRentalNotFound  = errors.New("rental not found")
	ErrAlreadyReturned = errors.New("rental already returned")
)

// InvalidArgumentError carries the caller facing validation message
type InvalidArgumentError struct {
	Field string
	Value int
	Msg   string
}

func (e *InvalidArgumentError) Error() string {
	return e.Msg
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func newRentalDaysError(days int) *InvalidArgumentError {
	return &InvalidArgumentError{
		Field: "rental_days",
		Value: days,
		Msg:   fmt.Sprintf("The rental day count must be greater than or equal to 1. Rental day count: %d", days),
	}
}

func newDiscountError(percent int) *InvalidArgumentError {
	return &InvalidArgumentError{
		Field: "discount_percent",
		Value: percent,
		Msg:   fmt.Sprintf("The discount percentage value must be a number from 0 to 100. Discount percentage value: %d", percent),
	}
}
