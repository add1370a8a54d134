package wire

import (
	"flight-booking/internal/adaptor"
	"flight-booking/internal/policy"
	"flight-booking/pkg/middleware"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReport(r chi.Router, reportHandler *adaptor.ReportHandler, config *utils.Config, log *zap.Logger) {
	auth := middleware.Auth(config.JWT.Secret, log)

	r.With(auth, middleware.RequirePermission(policy.ActionViewReports, log)).
		Get("/api/reports/outstanding-balance", reportHandler.OutstandingBalance)

	// Every role gets stats, scoped to what it can see
	r.With(auth).Get("/api/dashboard/stats", reportHandler.DashboardStats)
}

func wireAudit(r chi.Router, auditHandler *adaptor.AuditHandler, config *utils.Config, log *zap.Logger) {
	r.With(
		middleware.Auth(config.JWT.Secret, log),
		middleware.RequirePermission(policy.ActionViewAuditLogs, log),
	).Get("/api/audit-logs", auditHandler.GetAuditLogs)
}
