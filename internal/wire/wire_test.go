package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"flight-booking/internal/adaptor"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/data/repository"
	"flight-booking/internal/usecase"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApp(t *testing.T) *App {
	t.Helper()
	config := &utils.Config{
		App: utils.AppConfig{CORSOrigins: []string{"*"}},
		JWT: utils.JWTConfig{Secret: "wire-secret", ExpiryHours: 1},
	}
	checks := map[string]adaptor.HealthCheck{"database": func(context.Context) error { return nil }}
	return Wiring(&repository.Repository{}, config, zap.NewNop(), usecase.Deps{}, checks)
}

func bearer(t *testing.T, role entity.UserRole) string {
	t.Helper()
	token, _, err := utils.GenerateToken(entity.Actor{ID: uuid.New(), Role: role}, "wire-secret", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutes(t *testing.T) {
	app := testApp(t)

	var routes []string
	err := chi.Walk(app.Router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+strings.TrimSuffix(route, "/"))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(routes)

	for _, want := range []string{
		"POST /api/auth/login",
		"GET /api/auth/me",
		"GET /api/users",
		"POST /api/users",
		"GET /api/users/{id}",
		"PUT /api/users/{id}",
		"DELETE /api/users/{id}",
		"GET /api/suppliers",
		"POST /api/suppliers",
		"GET /api/suppliers/{id}",
		"PUT /api/suppliers/{id}",
		"GET /api/bookings",
		"POST /api/bookings",
		"GET /api/bookings/search",
		"GET /api/bookings/{id}",
		"PUT /api/bookings/{id}/submit",
		"PUT /api/bookings/{id}/verify-account",
		"PUT /api/bookings/{id}/verify-admin",
		"PUT /api/bookings/{id}/mark-billed",
		"PUT /api/bookings/{id}/mark-paid",
		"PUT /api/bookings/{id}/commercial",
		"PUT /api/bookings/{id}/billing",
		"POST /api/modifications",
		"GET /api/modifications/booking/{id}",
		"GET /api/audit-logs",
		"GET /api/reports/outstanding-balance",
		"GET /api/dashboard/stats",
		"GET /health",
	} {
		assert.Contains(t, routes, want)
	}
}

func TestGuards(t *testing.T) {
	app := testApp(t)
	id := uuid.NewString()

	tests := []struct {
		method, path string
		role         entity.UserRole
		want         int
	}{
		{http.MethodGet, "/api/bookings", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/auth/me", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/users", entity.RoleAgent1, http.StatusForbidden},
		{http.MethodPost, "/api/suppliers", entity.RoleAccount, http.StatusForbidden},
		{http.MethodPost, "/api/bookings", entity.RoleAgent2, http.StatusForbidden},
		{http.MethodPut, "/api/bookings/" + id + "/submit", entity.RoleAccount, http.StatusForbidden},
		{http.MethodPut, "/api/bookings/" + id + "/verify-account", entity.RoleAgent1, http.StatusForbidden},
		{http.MethodPut, "/api/bookings/" + id + "/verify-admin", entity.RoleAccount, http.StatusForbidden},
		{http.MethodPut, "/api/bookings/" + id + "/billing", entity.RoleAgent2, http.StatusForbidden},
		{http.MethodGet, "/api/audit-logs", entity.RoleAccount, http.StatusForbidden},
		{http.MethodGet, "/api/reports/outstanding-balance", entity.RoleAgent1, http.StatusForbidden},
		{http.MethodGet, "/api/bookings", "pilot", http.StatusForbidden},
		{http.MethodGet, "/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" "+string(tt.role), func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", bearer(t, tt.role))
			}
			w := httptest.NewRecorder()
			app.Router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
