package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditUserCreated              AuditAction = "USER_CREATED"
	AuditUserUpdated              AuditAction = "USER_UPDATED"
	AuditUserDeleted              AuditAction = "USER_DELETED"
	AuditSupplierCreated          AuditAction = "SUPPLIER_CREATED"
	AuditSupplierUpdated          AuditAction = "SUPPLIER_UPDATED"
	AuditBookingCreated           AuditAction = "BOOKING_CREATED"
	AuditBookingSubmitted         AuditAction = "BOOKING_SUBMITTED"
	AuditBookingUpdatedCommercial AuditAction = "BOOKING_UPDATED_COMMERCIAL"
	AuditBookingVerifiedAccount   AuditAction = "BOOKING_VERIFIED_ACCOUNT"
	AuditBookingVerifiedAdmin     AuditAction = "BOOKING_VERIFIED_ADMIN"
	AuditBookingBillingUpdated    AuditAction = "BOOKING_BILLING_UPDATED"
)

const (
	EntityUser         = "user"
	EntitySupplier     = "supplier"
	EntityBooking      = "booking"
	EntityModification = "modification"
)

// AuditLog is append-only; nothing updates or deletes it.
type AuditLog struct {
	ID         uuid.UUID      `db:"id"`
	Timestamp  time.Time      `db:"timestamp"`
	UserID     uuid.UUID      `db:"user_id"`
	UserName   string         `db:"user_name"`
	UserRole   UserRole       `db:"user_role"`
	Action     AuditAction    `db:"action"`
	EntityType string         `db:"entity_type"`
	EntityID   *uuid.UUID     `db:"entity_id"`
	Changes    map[string]any `db:"changes"`
}
