package wire

import (
	"net/http"

	"cinema-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireShowtime(r chi.Router, showtimeHandler *adaptor.ShowtimeHandler, auth, admin func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/showtimes?movie_id=1 - upcoming only
	r.Get("/api/showtimes", showtimeHandler.GetShowtimes)
	r.Get("/api/showtimes/{id}", showtimeHandler.GetShowtimeByID)

	// ==================== ADMIN ROUTES ====================
	r.With(auth, admin).Post("/api/admin/showtimes", showtimeHandler.CreateShowtime)
}
