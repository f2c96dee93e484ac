package grpc

import (
	"context"
	"errors"
	"math"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/service"
	"toolrental-backend/internal/utils"
)

type CheckoutHandler struct {
	checkoutSvc service.CheckoutService
	rentalSvc   service.RentalService
}

var _ CheckoutServiceServer = (*CheckoutHandler)(nil)

func NewCheckoutHandler(checkoutSvc service.CheckoutService, rentalSvc service.RentalService) *CheckoutHandler {
	return &CheckoutHandler{checkoutSvc: checkoutSvc, rentalSvc: rentalSvc}
}

// Checkout expects tool_code, rental_days, discount_percent and checkout_date
func (h *CheckoutHandler) Checkout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	toolCode := stringField(req, "tool_code")
	rentalDays, err := intField(req, "rental_days")
	if err != nil {
		return nil, err
	}
	if rentalDays > service.MaxRentalDays {
		return nil, status.Errorf(codes.InvalidArgument, "rental_days must not exceed %d", service.MaxRentalDays)
	}
	discount, err := intField(req, "discount_percent")
	if err != nil {
		return nil, err
	}
	checkoutDate, err := utils.ParseDate(stringField(req, "checkout_date"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	clerk, _ := GetClerkIDFromContext(ctx)
	logger.Info("gRPC checkout", "clerk", clerk, "toolCode", toolCode)

	agreement, ok, err := h.checkoutSvc.Checkout(ctx, toolCode, rentalDays, discount, checkoutDate)
	if err != nil {
		return nil, toStatus(err)
	}
	if !ok {
		return nil, status.Errorf(codes.FailedPrecondition, "Tool is not available to rent: %s", toolCode)
	}
	return structpb.NewStruct(agreementFields(agreement))
}

func (h *CheckoutHandler) ReturnTool(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rental, err := h.rentalSvc.ReturnTool(ctx, stringField(req, "rental_id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(rentalFields(rental))
}

func (h *CheckoutHandler) GetRental(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rental, err := h.rentalSvc.GetRental(ctx, stringField(req, "rental_id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(rentalFields(rental))
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrToolNotFound), errors.Is(err, service.ErrRentalNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyReturned):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		logger.Error("gRPC request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

// intField reads a whole number. Struct numbers are doubles, so fractions are rejected.
func intField(s *structpb.Struct, name string) (int, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, nil
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", name)
	}
	n := v.GetNumberValue()
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a whole number", name)
	}
	return int(n), nil
}

func agreementFields(a *domain.RentalAgreement) map[string]any {
	return map[string]any{
		"id":                  a.ID,
		"tool_code":           a.ToolCode,
		"tool_type":           a.ToolCategory.DisplayName(),
		"tool_brand":          a.ToolBrand.DisplayName(),
		"rental_days":         a.RentalDays,
		"checkout_date":       a.CheckoutDate.Format(utils.ISODateLayout),
		"due_date":            a.DueDate.Format(utils.ISODateLayout),
		"daily_rental_charge": a.DailyCharge.StringFixed(2),
		"charge_days":         a.ChargeDays,
		"pre_discount_charge": a.PreDiscountCharge.StringFixed(2),
		"discount_percent":    a.DiscountPercent,
		"discount_amount":     a.DiscountAmount.StringFixed(2),
		"final_charge":        a.FinalCharge.StringFixed(2),
	}
}

func rentalFields(rt *domain.Rental) map[string]any {
	fields := map[string]any{
		"agreement": agreementFields(&rt.Agreement),
		"status":    string(rt.Status),
	}
	if rt.ReturnedOn != nil {
		fields["returned_on"] = rt.ReturnedOn.UTC().Format(time.RFC3339)
	}
	return fields
}
