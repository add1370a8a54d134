package adaptor

import (
	"context"
	"net/http"
	"time"

	"flight-booking/pkg/utils"

	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
	log    *zap.Logger
}

func NewHealthHandler(checks map[string]HealthCheck, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		log:    log,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "Service unavailable", status, nil)
		return
	}
	utils.ResponseSuccess(w, "OK", status)
}
