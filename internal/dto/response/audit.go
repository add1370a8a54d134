package response

import (
	"time"

	"flight-booking/internal/data/entity"
)

type AuditLogResponse struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	UserID     string             `json:"user_id"`
	UserName   string             `json:"user_name"`
	UserRole   entity.UserRole    `json:"user_role"`
	Action     entity.AuditAction `json:"action"`
	EntityType string             `json:"entity_type"`
	EntityID   *string            `json:"entity_id,omitempty"`
	Changes    map[string]any     `json:"changes,omitempty"`
}

func AuditLogToResponse(l *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         l.ID.String(),
		Timestamp:  l.Timestamp,
		UserID:     l.UserID.String(),
		UserName:   l.UserName,
		UserRole:   l.UserRole,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   uuidPtrString(l.EntityID),
		Changes:    l.Changes,
	}
}
