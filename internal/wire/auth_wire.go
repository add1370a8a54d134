package wire

import (
	"flight-booking/internal/adaptor"
	"flight-booking/pkg/middleware"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, config *utils.Config, log *zap.Logger) {
	// Public
	r.Post("/api/auth/login", authHandler.Login)

	r.With(middleware.Auth(config.JWT.Secret, log)).Get("/api/auth/me", authHandler.Me)
}
