package adaptor

import (
	"context"
	"net/http"

	"flight-booking/internal/data/entity"
	"flight-booking/internal/dto/request"
	"flight-booking/internal/dto/response"
	"flight-booking/internal/usecase"
	"flight-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", booking)
}

// GetAllBookings handles GET /api/bookings?status=&search=&page=&per_page=
func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.BookingListRequest{
		PaginatedRequest: pageRequest(r),
		Status:           query.Get("status"),
		Search:           query.Get("search"),
	}

	bookings, err := h.service.ListBookings(r.Context(), actor, req)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved successfully", bookings)
}

// SearchBookings handles GET /api/bookings/search?q=
func (h *BookingHandler) SearchBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.SearchBookings(r.Context(), actor, r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, h.log, err, "search bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved successfully", bookings)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved successfully", booking)
}

type transitionFunc func(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error)

// transition serves the body-less PUT /api/bookings/{id}/<action> routes.
func (h *BookingHandler) transition(fn transitionFunc, operation, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(w, r)
		if !ok {
			return
		}

		booking, err := fn(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, h.log, err, operation)
			return
		}

		utils.ResponseSuccess(w, message, booking)
	}
}

// SubmitBooking handles PUT /api/bookings/{id}/submit
func (h *BookingHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(h.service.SubmitBooking, "submit booking", "Booking submitted for verification")(w, r)
}

// VerifyAccount handles PUT /api/bookings/{id}/verify-account
func (h *BookingHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	h.transition(h.service.VerifyAccount, "verify booking (account)", "Booking verified by account")(w, r)
}

// VerifyAdmin handles PUT /api/bookings/{id}/verify-admin
func (h *BookingHandler) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	h.transition(h.service.VerifyAdmin, "verify booking (admin)", "Booking verified by admin")(w, r)
}

// MarkBilled handles PUT /api/bookings/{id}/mark-billed
func (h *BookingHandler) MarkBilled(w http.ResponseWriter, r *http.Request) {
	h.transition(h.service.MarkBilled, "mark booking billed", "Booking marked as billed")(w, r)
}

// MarkPaid handles PUT /api/bookings/{id}/mark-paid
func (h *BookingHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(h.service.MarkPaid, "mark booking paid", "Booking marked as paid")(w, r)
}

// UpdateCommercial handles PUT /api/bookings/{id}/commercial
func (h *BookingHandler) UpdateCommercial(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.UpdateCommercialRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateCommercial(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update commercial details")
		return
	}

	utils.ResponseSuccess(w, "Commercial details updated successfully", booking)
}

// UpdateBilling handles PUT /api/bookings/{id}/billing
func (h *BookingHandler) UpdateBilling(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.UpdateBillingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateBilling(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update billing")
		return
	}

	utils.ResponseSuccess(w, "Billing updated successfully", booking)
}
