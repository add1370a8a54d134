package entity

import (
	"strings"

	"github.com/google/uuid"
)

type ModificationType string

const (
	ModificationDateChange   ModificationType = "date_change"
	ModificationFlightChange ModificationType = "flight_change"
	ModificationCancellation ModificationType = "cancellation"
)

// AuditAction is BOOKING_DATE_CHANGE, BOOKING_FLIGHT_CHANGE or BOOKING_CANCELLATION.
func (t ModificationType) AuditAction() AuditAction {
	return AuditAction("BOOKING_" + strings.ToUpper(string(t)))
}

type BookingModification struct {
	BaseSimple
	BookingID        uuid.UUID        `db:"booking_id"`
	ModificationType ModificationType `db:"modification_type"`
	Details          map[string]any   `db:"details"`
	CreatedBy        uuid.UUID        `db:"created_by"`
}
