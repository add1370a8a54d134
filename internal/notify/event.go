// Package notify publishes booking workflow events to downstream consumers.
package notify

import (
	"context"
	"time"

	"flight-booking/internal/data/entity"

	"github.com/google/uuid"
)

const (
	EventAccountVerified = "booking.account_verified"
	EventAdminVerified   = "booking.admin_verified"
)

type Event struct {
	Type       string               `json:"type"`
	BookingID  uuid.UUID            `json:"booking_id"`
	PNR        string               `json:"pnr"`
	PaxName    string               `json:"pax_name"`
	Status     entity.BookingStatus `json:"status"`
	VerifiedBy string               `json:"verified_by"`
	VerifiedAt time.Time            `json:"verified_at"`
}

// VerificationEvent describes b right after a verification edge. ok is
// false when b carries no verification for its status.
func VerificationEvent(b *entity.Booking, verifier entity.Actor) (Event, bool) {
	e := Event{
		BookingID:  b.ID,
		PNR:        b.PNR,
		PaxName:    b.PaxName,
		Status:     b.Status,
		VerifiedBy: verifier.Name,
	}

	switch {
	case b.Status == entity.BookingStatusAccountVerified && b.AccountVerifiedAt != nil:
		e.Type = EventAccountVerified
		e.VerifiedAt = *b.AccountVerifiedAt
	case b.Status == entity.BookingStatusAdminVerified && b.AdminVerifiedAt != nil:
		e.Type = EventAdminVerified
		e.VerifiedAt = *b.AdminVerifiedAt
	default:
		return Event{}, false
	}
	return e, true
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
