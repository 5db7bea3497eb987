package adaptor

import (
	"net/http"

	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/usecase"
	"cinema-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TheaterHandler struct {
	service usecase.TheaterService
	log     *zap.Logger
}

func NewTheaterHandler(service usecase.TheaterService, log *zap.Logger) *TheaterHandler {
	return &TheaterHandler{
		service: service,
		log:     log.With(zap.String("handler", "theater")),
	}
}

// GetTheaters handles GET /api/theaters
func (h *TheaterHandler) GetTheaters(w http.ResponseWriter, r *http.Request) {
	theaters, err := h.service.GetTheaters(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get theaters")
		return
	}

	utils.ResponseSuccess(w, "Theaters retrieved successfully", theaters)
}

// GetTheaterByID handles GET /api/theaters/{id}
func (h *TheaterHandler) GetTheaterByID(w http.ResponseWriter, r *http.Request) {
	theaterID, ok := parseIDParam(w, chi.URLParam(r, "id"), "theater")
	if !ok {
		return
	}

	theater, err := h.service.GetTheaterByID(r.Context(), theaterID)
	if err != nil {
		handleServiceError(w, h.log, err, "get theater by ID")
		return
	}

	utils.ResponseSuccess(w, "Theater retrieved successfully", theater)
}

// CreateTheater handles POST /api/admin/theaters
func (h *TheaterHandler) CreateTheater(w http.ResponseWriter, r *http.Request) {
	var req request.TheaterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	theater, err := h.service.CreateTheater(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create theater")
		return
	}

	utils.ResponseCreated(w, "Theater created successfully", theater)
}
