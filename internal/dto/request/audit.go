package request

type AuditLogRequest struct {
	UserID     string `json:"user_id" validate:"omitempty,uuid"`
	EntityType string `json:"entity_type" validate:"omitempty,oneof=user supplier booking modification"`
}
