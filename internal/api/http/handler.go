package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/report"
	"toolrental-backend/internal/security"
	"toolrental-backend/internal/service"
	"toolrental-backend/internal/utils"
)

// Handler serves the checkout counter REST API
type Handler struct {
	checkoutSvc service.CheckoutService
	rentalSvc   service.RentalService
}

func NewHandler(checkoutSvc service.CheckoutService, rentalSvc service.RentalService) *Handler {
	return &Handler{checkoutSvc: checkoutSvc, rentalSvc: rentalSvc}
}

// NewRouter wires every route. tokens may be nil to disable authentication;
// metrics may be nil to skip /metrics.
func NewRouter(h *Handler, tokens security.TokenManager, metrics http.Handler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if metrics != nil {
		router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/tools", h.ListTools).Methods(http.MethodGet)
	api.HandleFunc("/tools/{code}", h.GetTool).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", h.GetRental).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(tokens))
	protected.HandleFunc("/checkouts", h.Checkout).Methods(http.MethodPost)
	protected.HandleFunc("/rentals/{id}/return", h.ReturnTool).Methods(http.MethodPost)

	return router
}

type checkoutRequest struct {
	ToolCode        string `json:"tool_code"`
	RentalDays      int    `json:"rental_days"`
	DiscountPercent int    `json:"discount_percent"`
	CheckoutDate    string `json:"checkout_date"`
}

type agreementResponse struct {
	ID                string `json:"id"`
	ToolCode          string `json:"tool_code"`
	ToolType          string `json:"tool_type"`
	ToolBrand         string `json:"tool_brand"`
	RentalDays        int    `json:"rental_days"`
	CheckoutDate      string `json:"checkout_date"`
	DueDate           string `json:"due_date"`
	DailyCharge       string `json:"daily_rental_charge"`
	ChargeDays        int    `json:"charge_days"`
	PreDiscountCharge string `json:"pre_discount_charge"`
	DiscountPercent   int    `json:"discount_percent"`
	DiscountAmount    string `json:"discount_amount"`
	FinalCharge       string `json:"final_charge"`
}

type rentalResponse struct {
	Agreement  agreementResponse `json:"agreement"`
	Status     string            `json:"status"`
	ReturnedOn *time.Time        `json:"returned_on,omitempty"`
}

type toolResponse struct {
	Code          string `json:"code"`
	ToolType      string `json:"tool_type"`
	Brand         string `json:"brand"`
	DailyCharge   string `json:"daily_charge"`
	WeekdayCharge bool   `json:"weekday_charge"`
	WeekendCharge bool   `json:"weekend_charge"`
	HolidayCharge bool   `json:"holiday_charge"`
	Available     bool   `json:"available"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.RentalDays > service.MaxRentalDays {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("rental_days must not exceed %d", service.MaxRentalDays)})
		return
	}
	checkoutDate, err := utils.ParseDate(req.CheckoutDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	logger.InfoContext(r.Context(), "Checkout requested", "clerk", security.ClerkID(r.Context()), "toolCode", req.ToolCode)
	agreement, ok, err := h.checkoutSvc.Checkout(r.Context(), req.ToolCode, req.RentalDays, req.DiscountPercent, checkoutDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]any{
			"available": false,
			"tool_code": req.ToolCode,
			"message":   "Tool is not available to rent",
		})
		return
	}

	if wantsText(r) {
		writeText(w, http.StatusCreated, report.FormatAgreement(agreement))
		return
	}
	writeJSON(w, http.StatusCreated, toAgreementResponse(agreement))
}

func (h *Handler) GetRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalSvc.GetRental(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if wantsText(r) {
		writeText(w, http.StatusOK, report.FormatAgreement(&rental.Agreement))
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

func (h *Handler) ReturnTool(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentalSvc.ReturnTool(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.rentalSvc.ListTools(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]toolResponse, 0, len(tools))
	for i := range tools {
		resp = append(resp, toToolResponse(&tools[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetTool(w http.ResponseWriter, r *http.Request) {
	tool, err := h.rentalSvc.GetTool(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toToolResponse(tool))
}

func wantsText(r *http.Request) bool {
	return r.URL.Query().Get("format") == "text"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrToolNotFound), errors.Is(err, service.ErrRentalNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAlreadyReturned):
		logger.WarnContext(r.Context(), "Rental already returned", "path", r.URL.Path, "clerk", security.ClerkID(r.Context()))
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func toAgreementResponse(a *domain.RentalAgreement) agreementResponse {
	return agreementResponse{
		ID:                a.ID,
		ToolCode:          a.ToolCode,
		ToolType:          a.ToolCategory.DisplayName(),
		ToolBrand:         a.ToolBrand.DisplayName(),
		RentalDays:        a.RentalDays,
		CheckoutDate:      a.CheckoutDate.Format(utils.ISODateLayout),
		DueDate:           a.DueDate.Format(utils.ISODateLayout),
		DailyCharge:       a.DailyCharge.StringFixed(2),
		ChargeDays:        a.ChargeDays,
		PreDiscountCharge: a.PreDiscountCharge.StringFixed(2),
		DiscountPercent:   a.DiscountPercent,
		DiscountAmount:    a.DiscountAmount.StringFixed(2),
		FinalCharge:       a.FinalCharge.StringFixed(2),
	}
}

func toRentalResponse(rt *domain.Rental) rentalResponse {
	return rentalResponse{
		Agreement:  toAgreementResponse(&rt.Agreement),
		Status:     string(rt.Status),
		ReturnedOn: rt.ReturnedOn,
	}
}

func toToolResponse(t *domain.Tool) toolResponse {
	return toolResponse{
		Code:          t.Code,
		ToolType:      t.Category.DisplayName(),
		Brand:         t.Brand.DisplayName(),
		DailyCharge:   t.DailyCharge.StringFixed(2),
		WeekdayCharge: t.Weekday,
		WeekendCharge: t.Weekend,
		HolidayCharge: t.Holiday,
		Available:     t.Available,
	}
}
