package service

import (
	"context"
	"time"

	"toolrental-backend/internal/domain"
)

// MaxRentalDays is the longest rental the HTTP and gRPC transports accept.
// Charge days are counted day by day, so the bound keeps one request cheap.
const MaxRentalDays = 3650

type CheckoutService interface {
	// Checkout rents a tool. An unavailable tool is not an error: it yields
	// (nil, false, nil) and leaves the inventory untouched.
	Checkout(ctx context.Context, toolCode string, rentalDays, discountPercent int, checkoutDate time.Time) (*domain.RentalAgreement, bool, error)
}

type RentalService interface {
	GetRental(ctx context.Context, id string) (*domain.Rental, error)
	ReturnTool(ctx context.Context, id string) (*domain.Rental, error)
	ListTools(ctx context.Context) ([]domain.Tool, error)
	GetTool(ctx context.Context, code string) (*domain.Tool, error)
}

// RentalPublisher announces rental lifecycle changes. Implemented by
// events.KafkaPublisher.
type RentalPublisher interface {
	PublishAgreementCreated(ctx context.Context, rental *domain.Rental) error
	PublishToolReturned(ctx context.Context, rental *domain.Rental) error
	PublishRentalOverdue(ctx context.Context, rental *domain.Rental) error
}
