package wire

import (
	"feline-finder/internal/adaptor"
	"feline-finder/internal/data/repository"
	"feline-finder/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	viewHandler *adaptor.ViewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Staff(log))

		r.Get("/", bookingHandler.ListBookings)
		r.Post("/", bookingHandler.CreateBooking)

		// Filtered, sorted and grouped list plus its exports
		r.Get("/view", viewHandler.View)
		r.Get("/export.csv", viewHandler.ExportCSV)
		r.Get("/export.pdf", viewHandler.ExportPDF)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", bookingHandler.GetBooking)
			r.Patch("/", bookingHandler.UpdateBooking)
			r.Get("/history", bookingHandler.History)

			// POST /api/bookings/{id}/actions - confirm, cancel, reassign, ...
			r.Post("/actions", bookingHandler.ApplyAction)

			// POST /api/bookings/{id}/side-effects/retry - resend email or re-sync calendar
			r.Post("/side-effects/retry", bookingHandler.RetrySideEffect)
		})
	})
}
