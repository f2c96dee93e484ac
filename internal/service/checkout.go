package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/metrics"
	"toolrental-backend/internal/repository"
	"toolrental-backend/internal/utils"
)

type checkoutService struct {
	toolRepo   repository.ToolRepository
	rentalRepo repository.RentalRepository
	calculator *utils.ChargeDayCalculator
	publisher  RentalPublisher
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewCheckoutService builds the checkout flow. A nil calculator uses the US
// observed holidays; publisher and metrics may be nil.
func NewCheckoutService(
	toolRepo repository.ToolRepository,
	rentalRepo repository.RentalRepository,
	calculator *utils.ChargeDayCalculator,
	publisher RentalPublisher,
	m *metrics.Metrics,
) CheckoutService {
	if calculator == nil {
		calculator = utils.NewChargeDayCalculator(nil)
	}
	return &checkoutService{
		toolRepo:   toolRepo,
		rentalRepo: rentalRepo,
		calculator: calculator,
		publisher:  publisher,
		metrics:    m,
		now:        time.Now,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, toolCode string, rentalDays, discountPercent int, checkoutDate time.Time) (*domain.RentalAgreement, bool, error) {
	logger.EnterMethod("checkoutService.Checkout", "toolCode", toolCode, "rentalDays", rentalDays, "discountPercent", discountPercent)

	if err := validateCheckout(rentalDays, discountPercent); err != nil {
		s.metrics.CheckoutOutcome(metrics.OutcomeInvalid)
		logger.ExitMethodWithError("checkoutService.Checkout", err, "toolCode", toolCode)
		return nil, false, err
	}

	tool, err := s.toolRepo.GetByCode(ctx, toolCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.CheckoutOutcome(metrics.OutcomeNotFound)
			err = fmt.Errorf("%w: %s: %w", ErrToolNotFound, toolCode, err)
		} else {
			s.metrics.CheckoutOutcome(metrics.OutcomeError)
		}
		logger.ExitMethodWithError("checkoutService.Checkout", err, "toolCode", toolCode)
		return nil, false, err
	}

	if !tool.Available {
		return s.unavailable(toolCode)
	}

	checkoutDate = utils.DateOf(checkoutDate)
	dueDate := utils.DueDate(checkoutDate, rentalDays)
	chargeDays := s.calculator.ChargeDays(checkoutDate, dueDate, tool.ChargePolicy)
	charges := utils.Price(chargeDays, tool.DailyCharge, discountPercent)

	reserved, err := s.toolRepo.TryReserve(ctx, toolCode)
	if err != nil {
		s.metrics.CheckoutOutcome(metrics.OutcomeError)
		logger.ExitMethodWithError("checkoutService.Checkout", err, "toolCode", toolCode)
		return nil, false, fmt.Errorf("failed to reserve tool %s: %w", toolCode, err)
	}
	if !reserved {
		return s.unavailable(toolCode)
	}

	now := s.now().UTC()
	rental := &domain.Rental{
		Agreement: domain.RentalAgreement{
			ID:                uuid.New().String(),
			ToolCode:          tool.Code,
			ToolCategory:      tool.Category,
			ToolBrand:         tool.Brand,
			RentalDays:        rentalDays,
			ChargeDays:        chargeDays,
			CheckoutDate:      checkoutDate,
			DueDate:           dueDate,
			DailyCharge:       tool.DailyCharge,
			PreDiscountCharge: charges.PreDiscount,
			DiscountPercent:   discountPercent,
			DiscountAmount:    charges.Discount,
			FinalCharge:       charges.Final,
			CreatedOn:         now,
		},
		Status:    domain.RentalStatusOut,
		UpdatedOn: now,
	}

	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		if _, relErr := s.toolRepo.Release(ctx, toolCode); relErr != nil {
			logger.Error("Failed to release tool after rental persist failure", "toolCode", toolCode, "error", relErr)
		}
		s.metrics.CheckoutOutcome(metrics.OutcomeError)
		logger.ExitMethodWithError("checkoutService.Checkout", err, "toolCode", toolCode)
		return nil, false, fmt.Errorf("failed to save rental agreement: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAgreementCreated(ctx, rental); err != nil {
			logger.Warn("Failed to publish agreement created event", "rentalID", rental.Agreement.ID, "error", err)
		}
	}
	s.metrics.AgreementCreated(tool.Code, chargeDays, charges.Final)

	agreement := rental.Agreement
	logger.ExitMethod("checkoutService.Checkout", "toolCode", toolCode, "rentalID", agreement.ID,
		"chargeDays", chargeDays, "finalCharge", charges.Final.StringFixed(2))
	return &agreement, true, nil
}

func (s *checkoutService) unavailable(toolCode string) (*domain.RentalAgreement, bool, error) {
	logger.Info("Tool is not available to rent", "toolCode", toolCode)
	s.metrics.CheckoutOutcome(metrics.OutcomeUnavailable)
	logger.ExitMethod("checkoutService.Checkout", "toolCode", toolCode, "available", false)
	return nil, false, nil
}

func validateCheckout(rentalDays, discountPercent int) error {
	if rentalDays < 1 {
		return newRentalDaysError(rentalDays)
	}
	if discountPercent < 0 || discountPercent > 100 {
		return newDiscountError(discountPercent)
	}
	return nil
}
