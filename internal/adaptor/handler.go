package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/dto/request"
	"flight-booking/internal/usecase"
	"flight-booking/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Supplier     *SupplierHandler
	Booking      *BookingHandler
	Modification *ModificationHandler
	Audit        *AuditHandler
	Report       *ReportHandler
	Health       *HealthHandler
}

func NewHandler(service *usecase.Service, health *HealthHandler, log *zap.Logger) *Handler {
	log = log.With(zap.String("layer", "handler"))

	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, log),
		Supplier:     NewSupplierHandler(service.Supplier, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Modification: NewModificationHandler(service.Modification, log),
		Audit:        NewAuditHandler(service.Audit, log),
		Report:       NewReportHandler(service.Report, log),
		Health:       health,
	}
}

// decodeAndValidate reads a JSON body into dst and runs the struct tags.
// On failure it has already written the 400 response.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func actorFrom(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return actor, ok
}

// handleServiceError maps the error kinds to HTTP statuses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()
	fields := []zap.Field{zap.Error(err), zap.String("operation", operation), zap.String("kind", apperr.Kind(err))}

	switch {
	case errors.Is(err, apperr.ErrAuditFailure):
		log.Error(operation+" failed - audit log not written", fields...)
		utils.ResponseInternalError(w, "Audit log could not be written; the change was not saved")

	case errors.Is(err, apperr.ErrInvalidInput):
		log.Warn("Invalid input for "+operation, fields...)
		utils.ResponseBadRequest(w, errMsg, nil)

	case errors.Is(err, apperr.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", fields...)
		utils.ResponseUnauthorized(w, errMsg)

	case errors.Is(err, apperr.ErrForbidden),
		errors.Is(err, apperr.ErrUnknownRole):
		log.Warn(operation+" failed - forbidden", fields...)
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, apperr.ErrNotFound):
		log.Warn(operation+" failed - not found", fields...)
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, apperr.ErrInvalidTransition),
		errors.Is(err, apperr.ErrConflict):
		log.Warn(operation+" failed - conflict", fields...)
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, apperr.ErrNotImplemented):
		log.Warn(operation+" not implemented", fields...)
		utils.ResponseNotImplemented(w, errMsg)

	default:
		log.Error("Failed to "+operation, fields...)
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// pageRequest reads page and per_page, clamping per_page to the maximum.
func pageRequest(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	req := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
	}
	if req.PerPage > request.MaxPerPage {
		req.PerPage = request.MaxPerPage
	}
	return req
}
