package wire

import (
	"flight-booking/internal/adaptor"
	"flight-booking/internal/policy"
	"flight-booking/pkg/middleware"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireModification(r chi.Router, modificationHandler *adaptor.ModificationHandler, config *utils.Config, log *zap.Logger) {
	r.Route("/api/modifications", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.RequirePermission(policy.ActionRecordModification, log))

		r.Post("/", modificationHandler.CreateModification)
		r.Get("/booking/{id}", modificationHandler.GetBookingModifications)
	})
}
