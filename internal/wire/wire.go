// internal/wire/wire.go
package wire

import (
	"flight-booking/internal/adaptor"
	"flight-booking/internal/data/repository"
	"flight-booking/internal/usecase"
	"flight-booking/pkg/middleware"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
	deps usecase.Deps,
	checks map[string]adaptor.HealthCheck,
) *App {
	service := usecase.NewService(repo, config, logger, deps)
	handler := adaptor.NewHandler(service, adaptor.NewHealthHandler(checks, logger), logger)

	return &App{
		Router:  setupRouter(handler, config, logger),
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(middleware.CORSOptions{AllowedOrigins: config.App.CORSOrigins}))

	wireAuth(r, handler.Auth, config, logger)
	wireUser(r, handler.User, config, logger)
	wireSupplier(r, handler.Supplier, config, logger)
	wireBooking(r, handler.Booking, config, logger)
	wireModification(r, handler.Modification, config, logger)
	wireAudit(r, handler.Audit, config, logger)
	wireReport(r, handler.Report, config, logger)

	r.Get("/health", handler.Health.Health)

	return r
}
