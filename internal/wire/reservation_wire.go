package wire

import (
	"net/http"

	"cinema-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReservation(r chi.Router, reservationHandler *adaptor.ReservationHandler, auth, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/reservations", func(r chi.Router) {
		r.Use(auth)

		// rate limit keyed by user, so it must run after auth
		r.With(rateLimit).Post("/", reservationHandler.CreateReservation)
		r.Post("/check-availability", reservationHandler.CheckAvailability)
		r.Get("/my-reservations", reservationHandler.GetMyReservations)

		// the code is a bearer credential, any authenticated holder may view or cancel
		r.Get("/{code}", reservationHandler.GetReservationByCode)
		r.Delete("/{code}", reservationHandler.CancelReservation)
	})
}
