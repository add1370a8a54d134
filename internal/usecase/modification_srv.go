package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/data/repository"
	"flight-booking/internal/dto/request"
	"flight-booking/internal/dto/response"
	"flight-booking/internal/finance"
	"flight-booking/internal/policy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ModificationService records changes requested after a booking was made.
// A modification is a record; the booking itself is left as it is.
type ModificationService interface {
	CreateModification(ctx context.Context, actor entity.Actor, req *request.CreateModificationRequest) (*response.ModificationResponse, error)
	GetBookingModifications(ctx context.Context, actor entity.Actor, bookingID string) ([]response.ModificationResponse, error)
}

type modificationService struct {
	repo  *repository.Repository
	audit *auditRecorder
	now   func() time.Time
	log   *zap.Logger
}

func NewModificationService(repo *repository.Repository, audit *auditRecorder, now func() time.Time, log *zap.Logger) ModificationService {
	return &modificationService{
		repo:  repo,
		audit: audit,
		now:   now,
		log:   log.With(zap.String("service", "modification")),
	}
}

func (s *modificationService) CreateModification(ctx context.Context, actor entity.Actor, req *request.CreateModificationRequest) (*response.ModificationResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionRecordModification); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Create modification", req); err != nil {
		return nil, err
	}

	bookingID, err := parseID(req.BookingID, "booking")
	if err != nil {
		return nil, err
	}

	modType := entity.ModificationType(req.ModificationType)
	details, err := modificationDetails(modType, req)
	if err != nil {
		return nil, err
	}

	mod := &entity.BookingModification{
		BaseSimple:       entity.BaseSimple{ID: uuid.New(), CreatedAt: s.now().UTC()},
		BookingID:        bookingID,
		ModificationType: modType,
		Details:          details,
		CreatedBy:        actor.ID,
	}

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		booking, err := s.repo.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return notFound("booking", bookingID)
		}
		if err := checkOwner(actor, booking); err != nil {
			return err
		}

		if err := s.repo.Modification.Create(ctx, mod); err != nil {
			return err
		}
		return s.audit.record(ctx, actor, modType.AuditAction(), entity.EntityModification, mod.ID, map[string]any{
			"booking_id": bookingID.String(),
		})
	})
	if err != nil {
		s.log.Warn("Failed to record modification",
			zap.Error(err),
			zap.String("booking_id", req.BookingID),
			zap.String("type", req.ModificationType),
		)
		return nil, fmt.Errorf("create modification: %w", err)
	}

	s.log.Info("Modification recorded",
		zap.String("modification_id", mod.ID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.String("type", string(modType)),
	)

	res := response.ModificationToResponse(mod)
	return &res, nil
}

func (s *modificationService) GetBookingModifications(ctx context.Context, actor entity.Actor, bookingID string) ([]response.ModificationResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionRecordModification); err != nil {
		return nil, err
	}

	id, err := parseID(bookingID, "booking")
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, notFound("booking", id)
	}
	if err := checkOwner(actor, booking); err != nil {
		return nil, err
	}

	mods, err := s.repo.Modification.FindByBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list modifications: %w", err)
	}

	out := make([]response.ModificationResponse, len(mods))
	for i, m := range mods {
		out[i] = response.ModificationToResponse(m)
	}
	return out, nil
}

// modificationDetails checks the amounts of the details block matching t
// and returns it as a JSON object.
func modificationDetails(t entity.ModificationType, req *request.CreateModificationRequest) (map[string]any, error) {
	var details any

	switch t {
	case entity.ModificationCancellation:
		d := req.CancellationDetails
		for name, v := range map[string]decimal.Decimal{
			"total_paid_by_client": d.TotalPaidByClient,
			"refundable_amount":    d.RefundableAmount,
		} {
			if v.IsNegative() {
				return nil, fmt.Errorf("%w: %s must not be negative", apperr.ErrInvalidInput, name)
			}
			if err := finance.CheckScale(name, v); err != nil {
				return nil, err
			}
		}
		if d.RefundableAmount.GreaterThan(d.TotalPaidByClient) {
			return nil, fmt.Errorf("%w: refundable_amount exceeds total_paid_by_client", apperr.ErrInvalidInput)
		}
		details = d
	case entity.ModificationDateChange:
		d := req.DateChangeDetails
		if err := finance.ValidateAmounts(d.OurCost, d.SalePrice, nil); err != nil {
			return nil, err
		}
		details = d
	case entity.ModificationFlightChange:
		d := req.FlightChangeDetails
		if err := finance.ValidateAmounts(d.OurCost, d.SalePrice, nil); err != nil {
			return nil, err
		}
		details = d
	default:
		return nil, fmt.Errorf("%w: unknown modification type %q", apperr.ErrInvalidInput, t)
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode details: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode details: %w", err)
	}
	return out, nil
}
