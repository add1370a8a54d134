package workflow

import (
	"context"
	"fmt"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"

	"github.com/google/uuid"
)

// Billing moves a booking into billed and paid. Those edges belong to a
// billing subsystem that does not exist yet.
type Billing interface {
	MarkBilled(ctx context.Context, bookingID uuid.UUID, actor entity.Actor) (*entity.Booking, error)
	MarkPaid(ctx context.Context, bookingID uuid.UUID, actor entity.Actor) (*entity.Booking, error)
}

type UnsupportedBilling struct{}

func (UnsupportedBilling) MarkBilled(_ context.Context, bookingID uuid.UUID, _ entity.Actor) (*entity.Booking, error) {
	return nil, fmt.Errorf("mark booking %s billed: %w", bookingID, apperr.ErrNotImplemented)
}

func (UnsupportedBilling) MarkPaid(_ context.Context, bookingID uuid.UUID, _ entity.Actor) (*entity.Booking, error) {
	return nil, fmt.Errorf("mark booking %s paid: %w", bookingID, apperr.ErrNotImplemented)
}
