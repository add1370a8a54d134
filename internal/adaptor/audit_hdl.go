package adaptor

import (
	"net/http"

	"flight-booking/internal/dto/request"
	"flight-booking/internal/usecase"
	"flight-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuditHandler struct {
	service usecase.AuditService
	log     *zap.Logger
}

func NewAuditHandler(service usecase.AuditService, log *zap.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		log:     log,
	}
}

// GetAuditLogs handles GET /api/audit-logs?user_id=&entity_type=
func (h *AuditHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.AuditLogRequest{
		UserID:     query.Get("user_id"),
		EntityType: query.Get("entity_type"),
	}

	logs, err := h.service.ListAuditLogs(r.Context(), actor, req)
	if err != nil {
		handleServiceError(w, h.log, err, "list audit logs")
		return
	}

	utils.ResponseSuccess(w, "Audit logs retrieved successfully", logs)
}
