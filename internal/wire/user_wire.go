package wire

import (
	"flight-booking/internal/adaptor"
	"flight-booking/internal/policy"
	"flight-booking/pkg/middleware"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Admin only.
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, config *utils.Config, log *zap.Logger) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.RequirePermission(policy.ActionManageUsers, log))

		r.Get("/", userHandler.GetAllUsers)
		r.Post("/", userHandler.CreateUser)
		r.Get("/{id}", userHandler.GetUser)
		r.Put("/{id}", userHandler.UpdateUser)
		r.Delete("/{id}", userHandler.DeleteUser)
	})
}
