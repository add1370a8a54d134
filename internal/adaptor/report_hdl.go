package adaptor

import (
	"net/http"

	"flight-booking/internal/dto/request"
	"flight-booking/internal/usecase"
	"flight-booking/pkg/utils"

	"go.uber.org/zap"
)

type ReportHandler struct {
	service usecase.ReportService
	log     *zap.Logger
}

func NewReportHandler(service usecase.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log,
	}
}

// OutstandingBalance handles GET /api/reports/outstanding-balance?from=&to=
func (h *ReportHandler) OutstandingBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.ReportRequest{From: query.Get("from"), To: query.Get("to")}

	report, err := h.service.ListOutstandingBalances(r.Context(), actor, req)
	if err != nil {
		handleServiceError(w, h.log, err, "outstanding balance report")
		return
	}

	utils.ResponseSuccess(w, "Outstanding balances retrieved successfully", report)
}

// DashboardStats handles GET /api/dashboard/stats
func (h *ReportHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	stats, err := h.service.DashboardStats(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "dashboard stats")
		return
	}

	utils.ResponseSuccess(w, "Dashboard stats retrieved successfully", stats)
}
