package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/metrics"
	"toolrental-backend/internal/repository"
)

type rentalService struct {
	toolRepo   repository.ToolRepository
	rentalRepo repository.RentalRepository
	publisher  RentalPublisher
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewRentalService(
	toolRepo repository.ToolRepository,
	rentalRepo repository.RentalRepository,
	publisher RentalPublisher,
	m *metrics.Metrics,
) RentalService {
	return &rentalService{
		toolRepo:   toolRepo,
		rentalRepo: rentalRepo,
		publisher:  publisher,
		metrics:    m,
		now:        time.Now,
	}
}

func (s *rentalService) GetRental(ctx context.Context, id string) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRentalNotFound, id)
	}
	return rental, err
}

// ReturnTool closes an OUT or OVERDUE rental and puts the tool back in stock
func (s *rentalService) ReturnTool(ctx context.Context, id string) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.ReturnTool", "rentalID", id)

	rental, err := s.GetRental(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("rentalService.ReturnTool", err, "rentalID", id)
		return nil, err
	}
	if rental.Status == domain.RentalStatusReturned {
		logger.ExitMethodWithError("rentalService.ReturnTool", ErrAlreadyReturned, "rentalID", id)
		return nil, ErrAlreadyReturned
	}

	at := s.now().UTC()
	ok, err := s.rentalRepo.MarkReturned(ctx, id, at)
	if err != nil {
		logger.ExitMethodWithError("rentalService.ReturnTool", err, "rentalID", id)
		return nil, err
	}
	if !ok {
		// lost a race with a concurrent return
		logger.ExitMethodWithError("rentalService.ReturnTool", ErrAlreadyReturned, "rentalID", id)
		return nil, ErrAlreadyReturned
	}

	released, err := s.toolRepo.Release(ctx, rental.Agreement.ToolCode)
	if err != nil {
		logger.ExitMethodWithError("rentalService.ReturnTool", err, "rentalID", id)
		return nil, fmt.Errorf("failed to release tool %s: %w", rental.Agreement.ToolCode, err)
	}
	if !released {
		logger.Warn("Returned tool was already available", "toolCode", rental.Agreement.ToolCode, "rentalID", id)
	}

	rental.Status = domain.RentalStatusReturned
	rental.ReturnedOn = &at
	rental.UpdatedOn = at

	if s.publisher != nil {
		if err := s.publisher.PublishToolReturned(ctx, rental); err != nil {
			logger.Warn("Failed to publish tool returned event", "rentalID", id, "error", err)
		}
	}
	s.metrics.ToolReturned()

	logger.ExitMethod("rentalService.ReturnTool", "rentalID", id, "toolCode", rental.Agreement.ToolCode)
	return rental, nil
}

func (s *rentalService) ListTools(ctx context.Context) ([]domain.Tool, error) {
	return s.toolRepo.List(ctx)
}

func (s *rentalService) GetTool(ctx context.Context, code string) (*domain.Tool, error) {
	tool, err := s.toolRepo.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, code)
	}
	return tool, err
}
