package adaptor

import (
	"net/http"

	"flight-booking/internal/dto/request"
	"flight-booking/internal/usecase"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ModificationHandler struct {
	service usecase.ModificationService
	log     *zap.Logger
}

func NewModificationHandler(service usecase.ModificationService, log *zap.Logger) *ModificationHandler {
	return &ModificationHandler{
		service: service,
		log:     log,
	}
}

// CreateModification handles POST /api/modifications
func (h *ModificationHandler) CreateModification(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateModificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	mod, err := h.service.CreateModification(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create modification")
		return
	}

	utils.ResponseCreated(w, "Modification recorded successfully", mod)
}

// GetBookingModifications handles GET /api/modifications/booking/{id}
func (h *ModificationHandler) GetBookingModifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	mods, err := h.service.GetBookingModifications(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "list modifications")
		return
	}

	utils.ResponseSuccess(w, "Modifications retrieved successfully", mods)
}
