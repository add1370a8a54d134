package adaptor

import (
	"net/http"

	"flight-booking/internal/dto/request"
	"flight-booking/internal/usecase"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SupplierHandler struct {
	service usecase.SupplierService
	log     *zap.Logger
}

func NewSupplierHandler(service usecase.SupplierService, log *zap.Logger) *SupplierHandler {
	return &SupplierHandler{
		service: service,
		log:     log,
	}
}

// CreateSupplier handles POST /api/suppliers
func (h *SupplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateSupplierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	supplier, err := h.service.CreateSupplier(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create supplier")
		return
	}

	utils.ResponseCreated(w, "Supplier created successfully", supplier)
}

// GetAllSuppliers handles GET /api/suppliers
func (h *SupplierHandler) GetAllSuppliers(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	suppliers, err := h.service.GetAllSuppliers(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "get all suppliers")
		return
	}

	utils.ResponseSuccess(w, "Suppliers retrieved successfully", suppliers)
}

// GetSupplier handles GET /api/suppliers/{id}
func (h *SupplierHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	supplier, err := h.service.GetSupplier(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get supplier")
		return
	}

	utils.ResponseSuccess(w, "Supplier retrieved successfully", supplier)
}

// UpdateSupplier handles PUT /api/suppliers/{id}
func (h *SupplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.UpdateSupplierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	supplier, err := h.service.UpdateSupplier(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update supplier")
		return
	}

	utils.ResponseSuccess(w, "Supplier updated successfully", supplier)
}
