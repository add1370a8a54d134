package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BookingFilter narrows FindAll and Count. Zero values mean "any";
// Limit 0 means no limit.
type BookingFilter struct {
	CreatedBy   *uuid.UUID
	Statuses    []entity.BookingStatus
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByPNR(ctx context.Context, pnr string) (*entity.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)

	// UpdateStatus writes the workflow fields of booking only if the stored
	// status still equals expected. A mismatch returns ErrConflict and a
	// missing row ErrNotFound.
	UpdateStatus(ctx context.Context, booking *entity.Booking, expected entity.BookingStatus) error
	// UpdateCommercial has the same compare-and-swap contract as UpdateStatus.
	UpdateCommercial(ctx context.Context, booking *entity.Booking, expected entity.BookingStatus) error
	UpdateBilling(ctx context.Context, booking *entity.Booking) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `
	id, pax_name, contact_person, contact_number, pnr, airline, supplier_id, travel_details,
	our_cost::text, sale_price::text, payment_type, installments,
	status, created_by, submitted_at, account_verified_by, account_verified_at,
	admin_verified_by, admin_verified_at, billing_status, paid_amount_to_supplier::text,
	created_at, updated_at`

func scanBooking(row scanner) (*entity.Booking, error) {
	var (
		b                         entity.Booking
		travelRaw, installmentRaw []byte
		ourCost, salePrice, paid  string
	)

	err := row.Scan(
		&b.ID,
		&b.PaxName,
		&b.ContactPerson,
		&b.ContactNumber,
		&b.PNR,
		&b.Airline,
		&b.SupplierID,
		&travelRaw,
		&ourCost,
		&salePrice,
		&b.PaymentType,
		&installmentRaw,
		&b.Status,
		&b.CreatedBy,
		&b.SubmittedAt,
		&b.AccountVerifiedBy,
		&b.AccountVerifiedAt,
		&b.AdminVerifiedBy,
		&b.AdminVerifiedAt,
		&b.BillingStatus,
		&paid,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(travelRaw, &b.TravelDetails); err != nil {
		return nil, fmt.Errorf("decode travel details: %w", err)
	}
	if len(installmentRaw) > 0 {
		if err := json.Unmarshal(installmentRaw, &b.Installments); err != nil {
			return nil, fmt.Errorf("decode installments: %w", err)
		}
	}

	if b.OurCost, err = decimal.NewFromString(ourCost); err != nil {
		return nil, fmt.Errorf("decode our_cost: %w", err)
	}
	if b.SalePrice, err = decimal.NewFromString(salePrice); err != nil {
		return nil, fmt.Errorf("decode sale_price: %w", err)
	}
	if b.PaidAmountToSupplier, err = decimal.NewFromString(paid); err != nil {
		return nil, fmt.Errorf("decode paid_amount_to_supplier: %w", err)
	}

	return &b, nil
}

func encodeJSON(booking *entity.Booking) (travel, installments []byte, err error) {
	if travel, err = json.Marshal(booking.TravelDetails); err != nil {
		return nil, nil, fmt.Errorf("encode travel details: %w", err)
	}
	list := booking.Installments
	if list == nil {
		list = []entity.Installment{}
	}
	if installments, err = json.Marshal(list); err != nil {
		return nil, nil, fmt.Errorf("encode installments: %w", err)
	}
	return travel, installments, nil
}

func (f BookingFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.CreatedBy != nil {
		args = append(args, *f.CreatedBy)
		conds = append(conds, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(pnr ILIKE $%d OR contact_number LIKE $%d)", n, n))
	}
	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.CreatedTo != nil {
		args = append(args, *f.CreatedTo)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	travel, installments, err := encodeJSON(booking)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bookings (
			id, pax_name, contact_person, contact_number, pnr, airline, supplier_id, travel_details,
			our_cost, sale_price, payment_type, installments, status, created_by,
			billing_status, paid_amount_to_supplier, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::text::numeric, $10::text::numeric, $11, $12,
			$13, $14, $15, $16::text::numeric, $17, $18)
	`

	_, err = database.Conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		booking.PaxName,
		booking.ContactPerson,
		booking.ContactNumber,
		booking.PNR,
		booking.Airline,
		booking.SupplierID,
		travel,
		booking.OurCost.String(),
		booking.SalePrice.String(),
		booking.PaymentType,
		installments,
		booking.Status,
		booking.CreatedBy,
		booking.BillingStatus,
		booking.PaidAmountToSupplier.String(),
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("PNR %s already exists: %w", booking.PNR, apperr.ErrConflict)
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("pnr", booking.PNR),
			zap.String("created_by", booking.CreatedBy.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.PNR, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByPNR(ctx context.Context, pnr string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE UPPER(pnr) = UPPER($1)`

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, pnr))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by PNR", zap.Error(err), zap.String("pnr", pnr))
		return nil, fmt.Errorf("find booking by PNR %s: %w", pnr, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error) {
	where, args := filter.where()
	query := `SELECT ` + bookingColumns + ` FROM bookings` + where + ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.Int("limit", filter.Limit),
			zap.Int("offset", filter.Offset),
		)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := filter.where()

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, booking *entity.Booking, expected entity.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $3, submitted_at = $4, account_verified_by = $5, account_verified_at = $6,
		    admin_verified_by = $7, admin_verified_at = $8, updated_at = $9
		WHERE id = $1 AND status = $2
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		expected,
		booking.Status,
		booking.SubmittedAt,
		booking.AccountVerifiedBy,
		booking.AccountVerifiedAt,
		booking.AdminVerifiedBy,
		booking.AdminVerifiedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", booking.ID, booking.Status, err)
	}

	if result.RowsAffected() == 0 {
		return r.diagnoseMiss(ctx, booking.ID, expected)
	}

	return nil
}

func (r *bookingRepository) UpdateCommercial(ctx context.Context, booking *entity.Booking, expected entity.BookingStatus) error {
	_, installments, err := encodeJSON(booking)
	if err != nil {
		return err
	}

	query := `
		UPDATE bookings
		SET supplier_id = $3, our_cost = $4::text::numeric, sale_price = $5::text::numeric,
		    payment_type = $6, installments = $7, updated_at = $8
		WHERE id = $1 AND status = $2
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		expected,
		booking.SupplierID,
		booking.OurCost.String(),
		booking.SalePrice.String(),
		booking.PaymentType,
		installments,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking commercial fields",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s commercial fields: %w", booking.ID, err)
	}

	if result.RowsAffected() == 0 {
		return r.diagnoseMiss(ctx, booking.ID, expected)
	}

	return nil
}

func (r *bookingRepository) UpdateBilling(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET billing_status = $2, paid_amount_to_supplier = $3::text::numeric, updated_at = $4
		WHERE id = $1
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		booking.BillingStatus,
		booking.PaidAmountToSupplier.String(),
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking billing",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s billing: %w", booking.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", booking.ID, apperr.ErrNotFound)
	}

	return nil
}

// diagnoseMiss explains why a conditional update touched no rows.
func (r *bookingRepository) diagnoseMiss(ctx context.Context, id uuid.UUID, expected entity.BookingStatus) error {
	var current entity.BookingStatus
	err := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("booking %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check booking %s status: %w", id, err)
	}
	return fmt.Errorf("booking %s is %s, expected %s: %w", id, current, expected, apperr.ErrConflict)
}
