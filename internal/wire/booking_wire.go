package wire

import (
	"net/http"

	"flight-booking/internal/adaptor"
	"flight-booking/internal/policy"
	"flight-booking/pkg/middleware"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, config *utils.Config, log *zap.Logger) {
	can := func(action policy.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(action, log)
	}

	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// Reads; agents only see their own bookings
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireView(policy.ResourceBooking, log))
			r.Get("/", bookingHandler.GetAllBookings)
			r.Get("/search", bookingHandler.SearchBookings)
			r.Get("/{id}", bookingHandler.GetBooking)
		})

		r.With(can(policy.ActionCreateBooking)).Post("/", bookingHandler.CreateBooking)

		// Workflow
		r.With(can(policy.ActionSubmitBooking)).Put("/{id}/submit", bookingHandler.SubmitBooking)
		r.With(can(policy.ActionVerifyAccount)).Put("/{id}/verify-account", bookingHandler.VerifyAccount)
		r.With(can(policy.ActionVerifyAdmin)).Put("/{id}/verify-admin", bookingHandler.VerifyAdmin)
		r.With(can(policy.ActionUpdateBilling)).Put("/{id}/mark-billed", bookingHandler.MarkBilled)
		r.With(can(policy.ActionUpdateBilling)).Put("/{id}/mark-paid", bookingHandler.MarkPaid)

		r.With(can(policy.ActionUpdateCommercial)).Put("/{id}/commercial", bookingHandler.UpdateCommercial)
		r.With(can(policy.ActionUpdateBilling)).Put("/{id}/billing", bookingHandler.UpdateBilling)
	})
}
