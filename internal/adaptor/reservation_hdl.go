package adaptor

import (
	"net/http"
	"strings"

	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/usecase"
	"cinema-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

type codeParam struct {
	Code string `json:"code" validate:"required,confcode"`
}

// CreateReservation handles POST /api/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReservationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reservation, err := h.service.CreateReservation(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "Reservation created successfully", reservation)
}

// CheckAvailability handles POST /api/reservations/check-availability
func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req request.CheckAvailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	availability, err := h.service.CheckAvailability(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "Availability checked", availability)
}

// GetMyReservations handles GET /api/reservations/my-reservations
func (h *ReservationHandler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := request.NewPaginatedRequest(query.Get("page"), query.Get("per_page"))

	reservations, err := h.service.GetUserReservations(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user reservations")
		return
	}

	utils.ResponseSuccess(w, "Reservations retrieved successfully", reservations)
}

// GetReservationByCode handles GET /api/reservations/{code}
func (h *ReservationHandler) GetReservationByCode(w http.ResponseWriter, r *http.Request) {
	code, ok := h.codeFromPath(w, r)
	if !ok {
		return
	}

	reservation, err := h.service.GetReservationByCode(r.Context(), code)
	if err != nil {
		handleServiceError(w, h.log, err, "get reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation retrieved successfully", reservation)
}

// CancelReservation handles DELETE /api/reservations/{code}
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	code, ok := h.codeFromPath(w, r)
	if !ok {
		return
	}

	result, err := h.service.CancelReservation(r.Context(), userID, code)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation cancelled successfully", result)
}

// codes are matched case-sensitively, surrounding whitespace is not part of the code
func (h *ReservationHandler) codeFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	param := codeParam{Code: strings.TrimSpace(chi.URLParam(r, "code"))}
	if validationErrors := utils.ValidateStruct(param); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return "", false
	}
	return param.Code, true
}
