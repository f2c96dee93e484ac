package repository

import (
	"context"
	"errors"
	"time"

	"toolrental-backend/internal/domain"
)

// ErrNotFound is returned when a tool or rental does not exist
var ErrNotFound = errors.New("not found")

// ToolRepository is the tool inventory. Availability only changes through
// TryReserve and Release, each an atomic check-and-set on a single tool.
type ToolRepository interface {
	Create(ctx context.Context, tool *domain.Tool) error
	GetByCode(ctx context.Context, code string) (*domain.Tool, error)
	List(ctx context.Context) ([]domain.Tool, error)

	// TryReserve flips an available tool to unavailable. It returns false when the
	// tool was already unavailable (or does not exist).
	TryReserve(ctx context.Context, code string) (bool, error)
	// Release flips an unavailable tool back to available.
	Release(ctx context.Context, code string) (bool, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	// MarkReturned moves an OUT or OVERDUE rental to RETURNED
	MarkReturned(ctx context.Context, id string, at time.Time) (bool, error)
	// MarkOverdue moves OUT rentals whose due date is before asOf to OVERDUE and returns them
	MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}
