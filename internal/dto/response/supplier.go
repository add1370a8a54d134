package response

import (
	"time"

	"flight-booking/internal/data/entity"
)

type SupplierResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactInfo *string   `json:"contact_info,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func SupplierToResponse(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		ContactInfo: s.ContactInfo,
		CreatedBy:   s.CreatedBy.String(),
		CreatedAt:   s.CreatedAt,
	}
}
