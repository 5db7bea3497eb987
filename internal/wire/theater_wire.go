package wire

import (
	"net/http"

	"cinema-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTheater(r chi.Router, theaterHandler *adaptor.TheaterHandler, auth, admin func(http.Handler) http.Handler) {
	r.Get("/api/theaters", theaterHandler.GetTheaters)
	r.Get("/api/theaters/{id}", theaterHandler.GetTheaterByID)

	r.With(auth, admin).Post("/api/admin/theaters", theaterHandler.CreateTheater)
}
