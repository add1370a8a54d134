package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"flight-booking/internal/data/entity"
	"flight-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ModificationRepository interface {
	Create(ctx context.Context, mod *entity.BookingModification) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingModification, error)
}

type modificationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewModificationRepository(db database.PgxIface, log *zap.Logger) ModificationRepository {
	return &modificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "modification")),
	}
}

func (r *modificationRepository) Create(ctx context.Context, mod *entity.BookingModification) error {
	details, err := json.Marshal(mod.Details)
	if err != nil {
		return fmt.Errorf("encode modification details: %w", err)
	}

	query := `
		INSERT INTO booking_modifications (id, booking_id, modification_type, details, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = database.Conn(ctx, r.db).Exec(ctx, query,
		mod.ID,
		mod.BookingID,
		mod.ModificationType,
		details,
		mod.CreatedBy,
		mod.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking modification",
			zap.Error(err),
			zap.String("booking_id", mod.BookingID.String()),
			zap.String("type", string(mod.ModificationType)),
		)
		return fmt.Errorf("create %s modification for booking %s: %w", mod.ModificationType, mod.BookingID, err)
	}

	return nil
}

func (r *modificationRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingModification, error) {
	query := `
		SELECT id, booking_id, modification_type, details, created_by, created_at
		FROM booking_modifications
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to list booking modifications",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("list modifications for booking %s: %w", bookingID, err)
	}
	defer rows.Close()

	var mods []*entity.BookingModification
	for rows.Next() {
		var (
			mod     entity.BookingModification
			details []byte
		)
		if err := rows.Scan(&mod.ID, &mod.BookingID, &mod.ModificationType, &details, &mod.CreatedBy, &mod.CreatedAt); err != nil {
			r.log.Error("Failed to scan modification row", zap.Error(err))
			return nil, fmt.Errorf("scan modification row: %w", err)
		}
		if err := json.Unmarshal(details, &mod.Details); err != nil {
			return nil, fmt.Errorf("decode modification details: %w", err)
		}
		mods = append(mods, &mod)
	}

	return mods, rows.Err()
}
