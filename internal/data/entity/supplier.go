package entity

import "github.com/google/uuid"

type Supplier struct {
	Base
	Name        string    `db:"name"`
	ContactInfo *string   `db:"contact_info"`
	CreatedBy   uuid.UUID `db:"created_by"`
}
