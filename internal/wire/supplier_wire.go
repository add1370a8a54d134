package wire

import (
	"flight-booking/internal/adaptor"
	"flight-booking/internal/policy"
	"flight-booking/pkg/middleware"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSupplier(r chi.Router, supplierHandler *adaptor.SupplierHandler, config *utils.Config, log *zap.Logger) {
	r.Route("/api/suppliers", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireView(policy.ResourceSupplier, log))
			r.Get("/", supplierHandler.GetAllSuppliers)
			r.Get("/{id}", supplierHandler.GetSupplier)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(policy.ActionManageSuppliers, log))
			r.Post("/", supplierHandler.CreateSupplier)
			r.Put("/{id}", supplierHandler.UpdateSupplier)
		})
	})
}
