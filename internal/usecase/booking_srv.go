package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flight-booking/internal/apperr"
	"flight-booking/internal/cache"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/data/repository"
	"flight-booking/internal/dto/request"
	"flight-booking/internal/dto/response"
	"flight-booking/internal/finance"
	"flight-booking/internal/notify"
	"flight-booking/internal/policy"
	"flight-booking/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const searchLimit = 50

type BookingService interface {
	CreateBooking(ctx context.Context, actor entity.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, actor entity.Actor, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	SearchBookings(ctx context.Context, actor entity.Actor, query string) ([]response.BookingResponse, error)

	// Workflow transitions
	SubmitBooking(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error)
	VerifyAccount(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error)
	VerifyAdmin(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error)
	MarkBilled(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error)
	MarkPaid(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error)

	UpdateCommercial(ctx context.Context, actor entity.Actor, bookingID string, req *request.UpdateCommercialRequest) (*response.BookingResponse, error)
	UpdateBilling(ctx context.Context, actor entity.Actor, bookingID string, req *request.UpdateBillingRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo           *repository.Repository
	audit          *auditRecorder
	machine        *workflow.Machine
	billing        workflow.Billing
	publisher      notify.Publisher
	publishTimeout time.Duration
	stats          cache.StatsCache
	now            func() time.Time
	log            *zap.Logger
}

func NewBookingService(repo *repository.Repository, audit *auditRecorder, deps Deps, log *zap.Logger) BookingService {
	deps = deps.withDefaults(log)
	return &bookingService{
		repo:           repo,
		audit:          audit,
		machine:        workflow.NewMachine(deps.Clock),
		billing:        deps.Billing,
		publisher:      deps.Publisher,
		publishTimeout: audit.timeout,
		stats:          deps.Stats,
		now:            deps.Clock,
		log:            log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor entity.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Authorize and validate
	if err := policy.Authorize(actor.Role, policy.ActionCreateBooking); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Create booking", req); err != nil {
		return nil, err
	}

	supplierID, err := parseID(req.SupplierID, "supplier")
	if err != nil {
		return nil, err
	}

	// 2. Money rules
	paymentType := entity.PaymentType(req.PaymentType)
	installments := toInstallments(req.Installments)
	if err := checkPaymentType(paymentType, installments); err != nil {
		return nil, err
	}
	if err := finance.ValidateAmounts(req.OurCost, req.SalePrice, installments); err != nil {
		return nil, err
	}

	// 3. Build entity
	now := s.now().UTC()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PaxName:              strings.TrimSpace(req.PaxName),
		ContactPerson:        req.ContactPerson,
		ContactNumber:        req.ContactNumber,
		PNR:                  strings.ToUpper(req.PNR),
		Airline:              req.Airline,
		SupplierID:           supplierID,
		TravelDetails:        toTravelDetails(req.TravelDetails),
		OurCost:              req.OurCost,
		SalePrice:            req.SalePrice,
		PaymentType:          paymentType,
		Installments:         installments,
		Status:               entity.BookingStatusDraft,
		CreatedBy:            actor.ID,
		BillingStatus:        entity.BillingStatusUnpaid,
		PaidAmountToSupplier: decimal.Zero,
	}

	// 4. Persist with audit
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.Booking.FindByPNR(ctx, booking.PNR)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("PNR %s already exists: %w", booking.PNR, apperr.ErrConflict)
		}

		supplier, err := s.repo.Supplier.FindByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return notFound("supplier", supplierID)
		}

		if err := s.repo.Booking.Create(ctx, booking); err != nil {
			return err
		}
		return s.audit.record(ctx, actor, entity.AuditBookingCreated, entity.EntityBooking, booking.ID, map[string]any{
			"pnr": booking.PNR,
		})
	})
	if err != nil {
		s.log.Warn("Failed to create booking",
			zap.Error(err),
			zap.String("pnr", booking.PNR),
			zap.String("actor", actor.ID.String()),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("pnr", booking.PNR),
		zap.String("created_by", actor.ID.String()),
	)
	s.invalidateStats(ctx)

	return s.toResponse(booking, actor)
}

func (s *bookingService) GetBooking(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error) {
	if err := policy.AuthorizeView(actor.Role, policy.ResourceBooking); err != nil {
		return nil, err
	}

	id, err := parseID(bookingID, "booking")
	if err != nil {
		return nil, err
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(actor, booking); err != nil {
		return nil, err
	}

	return s.toResponse(booking, actor)
}

func (s *bookingService) ListBookings(ctx context.Context, actor entity.Actor, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := policy.AuthorizeView(actor.Role, policy.ResourceBooking); err != nil {
		return nil, err
	}
	if err := validate(s.log, "List bookings", req); err != nil {
		return nil, err
	}
	req.Normalize()

	filter := scopeFilter(actor)
	filter.Search = req.Search
	if req.Status != "" {
		filter.Statuses = entity.BookingStatus(req.Status).Equivalents()
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	filter.Limit = req.Limit()
	filter.Offset = req.Offset()
	bookings, err := s.repo.Booking.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	items, err := s.toResponses(bookings, actor)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

// SearchBookings matches the PNR case-insensitively or the contact number
// as a substring.
func (s *bookingService) SearchBookings(ctx context.Context, actor entity.Actor, query string) ([]response.BookingResponse, error) {
	if err := policy.AuthorizeView(actor.Role, policy.ResourceBooking); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" || len(query) > 50 {
		return nil, fmt.Errorf("%w: search term must be 1 to 50 characters", apperr.ErrInvalidInput)
	}

	filter := scopeFilter(actor)
	filter.Search = query
	filter.Limit = searchLimit

	bookings, err := s.repo.Booking.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search bookings: %w", err)
	}

	return s.toResponses(bookings, actor)
}

func (s *bookingService) SubmitBooking(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error) {
	return s.transition(ctx, actor, bookingID, workflow.ActionSubmit)
}

func (s *bookingService) VerifyAccount(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error) {
	return s.transition(ctx, actor, bookingID, workflow.ActionVerifyAccount)
}

func (s *bookingService) VerifyAdmin(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error) {
	return s.transition(ctx, actor, bookingID, workflow.ActionVerifyAdmin)
}

// transition applies one workflow edge. The status update is conditional
// on the status that was loaded, and the audit entry shares its
// transaction, so a lost race or a failed audit leaves nothing behind.
func (s *bookingService) transition(ctx context.Context, actor entity.Actor, bookingID string, action workflow.Action) (*response.BookingResponse, error) {
	t, ok := workflow.Lookup(action)
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", apperr.ErrInvalidInput, action)
	}
	if err := policy.Authorize(actor.Role, t.Permission); err != nil {
		return nil, err
	}

	id, err := parseID(bookingID, "booking")
	if err != nil {
		return nil, err
	}

	var next *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		updated, _, err := s.machine.Apply(current, action, actor)
		if err != nil {
			return err
		}

		if err := s.repo.Booking.UpdateStatus(ctx, updated, current.Status); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				return fmt.Errorf("%w: %w", apperr.ErrInvalidTransition, err)
			}
			return err
		}

		if err := s.audit.record(ctx, actor, t.Audit, entity.EntityBooking, id, map[string]any{
			"from": current.Status,
			"to":   updated.Status,
		}); err != nil {
			return err
		}

		next = updated
		return nil
	})
	if err != nil {
		s.log.Warn("Booking transition failed",
			zap.Error(err),
			zap.String("action", string(action)),
			zap.String("booking_id", bookingID),
			zap.String("actor", actor.ID.String()),
			zap.String("kind", apperr.Kind(err)),
		)
		return nil, fmt.Errorf("%s booking: %w", action, err)
	}

	s.log.Info("Booking transitioned",
		zap.String("action", string(action)),
		zap.String("booking_id", bookingID),
		zap.String("status", string(next.Status)),
		zap.String("actor", actor.ID.String()),
	)

	s.invalidateStats(ctx)
	if event, ok := notify.VerificationEvent(next, actor); ok {
		s.publish(ctx, event)
	}

	return s.toResponse(next, actor)
}

// publish runs after commit, so it outlives a cancelled request but is
// bounded by the same timeout as the audit write.
func (s *bookingService) publish(ctx context.Context, event notify.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish verification event",
			zap.Error(err),
			zap.String("booking_id", event.BookingID.String()),
		)
	}
}

func (s *bookingService) MarkBilled(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error) {
	return s.billingStep(ctx, actor, bookingID, s.billing.MarkBilled)
}

func (s *bookingService) MarkPaid(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error) {
	return s.billingStep(ctx, actor, bookingID, s.billing.MarkPaid)
}

func (s *bookingService) billingStep(
	ctx context.Context,
	actor entity.Actor,
	bookingID string,
	step func(context.Context, uuid.UUID, entity.Actor) (*entity.Booking, error),
) (*response.BookingResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionUpdateBilling); err != nil {
		return nil, err
	}

	id, err := parseID(bookingID, "booking")
	if err != nil {
		return nil, err
	}

	booking, err := step(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	return s.toResponse(booking, actor)
}

// UpdateCommercial edits supplier and money fields. Verified bookings are
// locked except for admin. agent1 may only edit its own bookings, and
// agent2 may edit any draft.
func (s *bookingService) UpdateCommercial(ctx context.Context, actor entity.Actor, bookingID string, req *request.UpdateCommercialRequest) (*response.BookingResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionUpdateCommercial); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Update commercial", req); err != nil {
		return nil, err
	}

	id, err := parseID(bookingID, "booking")
	if err != nil {
		return nil, err
	}

	var updated *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		if actor.Role == entity.RoleAgent1 {
			if err := checkOwner(actor, current); err != nil {
				return err
			}
		}
		if current.IsVerified() && actor.Role != entity.RoleAdmin {
			return fmt.Errorf("booking %s is verified and locked: %w", id, apperr.ErrForbidden)
		}
		if actor.Role == entity.RoleAgent2 && current.Status != entity.BookingStatusDraft {
			return fmt.Errorf("booking %s cannot be edited after submission: %w", id, apperr.ErrForbidden)
		}

		next, changes, err := s.applyCommercial(ctx, current, req)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			updated = current
			return nil
		}
		next.UpdatedAt = s.now().UTC()

		if err := s.repo.Booking.UpdateCommercial(ctx, next, current.Status); err != nil {
			return err
		}
		if err := s.audit.record(ctx, actor, entity.AuditBookingUpdatedCommercial, entity.EntityBooking, id, changes); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		s.log.Warn("Failed to update commercial fields", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("update commercial: %w", err)
	}

	s.invalidateStats(ctx)
	return s.toResponse(updated, actor)
}

func (s *bookingService) applyCommercial(ctx context.Context, current *entity.Booking, req *request.UpdateCommercialRequest) (*entity.Booking, map[string]any, error) {
	next := current.Clone()
	changes := map[string]any{}

	if req.SupplierID != nil {
		supplierID, err := parseID(*req.SupplierID, "supplier")
		if err != nil {
			return nil, nil, err
		}
		supplier, err := s.repo.Supplier.FindByID(ctx, supplierID)
		if err != nil {
			return nil, nil, err
		}
		if supplier == nil {
			return nil, nil, notFound("supplier", supplierID)
		}
		next.SupplierID = supplierID
		changes["supplier_id"] = supplierID.String()
	}
	if req.OurCost != nil {
		next.OurCost = *req.OurCost
		changes["our_cost"] = req.OurCost.String()
	}
	if req.SalePrice != nil {
		next.SalePrice = *req.SalePrice
		changes["sale_price"] = req.SalePrice.String()
	}
	if req.PaymentType != nil {
		next.PaymentType = entity.PaymentType(*req.PaymentType)
		changes["payment_type"] = *req.PaymentType
	}
	if req.Installments != nil {
		next.Installments = toInstallments(req.Installments)
		changes["installments"] = len(next.Installments)
	}

	if err := checkPaymentType(next.PaymentType, next.Installments); err != nil {
		return nil, nil, err
	}
	if err := finance.ValidateAmounts(next.OurCost, next.SalePrice, next.Installments); err != nil {
		return nil, nil, err
	}
	return next, changes, nil
}

func (s *bookingService) UpdateBilling(ctx context.Context, actor entity.Actor, bookingID string, req *request.UpdateBillingRequest) (*response.BookingResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionUpdateBilling); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Update billing", req); err != nil {
		return nil, err
	}
	if req.PaidAmountToSupplier.IsNegative() {
		return nil, fmt.Errorf("%w: paid_amount_to_supplier must not be negative", apperr.ErrInvalidInput)
	}
	if err := finance.CheckScale("paid_amount_to_supplier", req.PaidAmountToSupplier); err != nil {
		return nil, err
	}

	id, err := parseID(bookingID, "booking")
	if err != nil {
		return nil, err
	}

	var updated *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		next := current.Clone()
		next.BillingStatus = entity.BillingStatus(req.BillingStatus)
		next.PaidAmountToSupplier = req.PaidAmountToSupplier
		next.UpdatedAt = s.now().UTC()

		if err := s.repo.Booking.UpdateBilling(ctx, next); err != nil {
			return err
		}
		if err := s.audit.record(ctx, actor, entity.AuditBookingBillingUpdated, entity.EntityBooking, id, map[string]any{
			"billing_status":          req.BillingStatus,
			"paid_amount_to_supplier": req.PaidAmountToSupplier.String(),
		}); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		s.log.Warn("Failed to update billing", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("update billing: %w", err)
	}

	return s.toResponse(updated, actor)
}

func (s *bookingService) load(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, notFound("booking", id)
	}
	return booking, nil
}

func (s *bookingService) toResponse(b *entity.Booking, actor entity.Actor) (*response.BookingResponse, error) {
	totals, err := finance.Summarize(b)
	if err != nil {
		return nil, err
	}

	actions := s.machine.Available(b, actor)
	allowed := make([]string, len(actions))
	for i, a := range actions {
		allowed[i] = string(a)
	}

	res := response.BookingToResponse(b, totals, allowed)
	return &res, nil
}

func (s *bookingService) toResponses(bookings []*entity.Booking, actor entity.Actor) ([]response.BookingResponse, error) {
	out := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		res, err := s.toResponse(b, actor)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, nil
}

func (s *bookingService) invalidateStats(ctx context.Context) {
	if err := s.stats.Invalidate(ctx); err != nil {
		s.log.Warn("Failed to invalidate stats cache", zap.Error(err))
	}
}

// scopeFilter limits agents to the bookings they created.
func scopeFilter(actor entity.Actor) repository.BookingFilter {
	var filter repository.BookingFilter
	if actor.Role.IsAgent() {
		id := actor.ID
		filter.CreatedBy = &id
	}
	return filter
}

func checkOwner(actor entity.Actor, b *entity.Booking) error {
	if actor.Role.IsAgent() && b.CreatedBy != actor.ID {
		return fmt.Errorf("booking %s belongs to another agent: %w", b.ID, apperr.ErrForbidden)
	}
	return nil
}

func checkPaymentType(pt entity.PaymentType, installments []entity.Installment) error {
	if pt == entity.PaymentTypeFull && len(installments) > 0 {
		return fmt.Errorf("%w: installments require payment_type installments", apperr.ErrInvalidInput)
	}
	return nil
}

func toTravelDetails(req request.TravelDetailsRequest) entity.TravelDetails {
	legs := make([]entity.TravelLeg, len(req.Legs))
	for i, l := range req.Legs {
		legs[i] = entity.TravelLeg{
			TravelDate:   l.TravelDate,
			FromLocation: l.FromLocation,
			ToLocation:   l.ToLocation,
			ReturnDate:   l.ReturnDate,
		}
	}
	return entity.TravelDetails{
		SectorType: entity.SectorType(req.SectorType),
		Legs:       legs,
		Note:       req.Note,
	}
}

func toInstallments(reqs []request.InstallmentRequest) []entity.Installment {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]entity.Installment, len(reqs))
	for i, r := range reqs {
		out[i] = entity.Installment{
			ID:          uuid.New(),
			Amount:      r.Amount,
			PaymentMode: entity.PaymentMode(r.PaymentMode),
			PaymentDate: r.PaymentDate,
			ReferenceNo: r.ReferenceNo,
		}
	}
	return out
}
