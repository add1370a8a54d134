package response

import (
	"time"

	"flight-booking/internal/data/entity"
)

type ModificationResponse struct {
	ID               string                  `json:"id"`
	BookingID        string                  `json:"booking_id"`
	ModificationType entity.ModificationType `json:"modification_type"`
	Details          map[string]any          `json:"details"`
	CreatedBy        string                  `json:"created_by"`
	CreatedAt        time.Time               `json:"created_at"`
}

func ModificationToResponse(m *entity.BookingModification) ModificationResponse {
	return ModificationResponse{
		ID:               m.ID.String(),
		BookingID:        m.BookingID.String(),
		ModificationType: m.ModificationType,
		Details:          m.Details,
		CreatedBy:        m.CreatedBy.String(),
		CreatedAt:        m.CreatedAt,
	}
}
