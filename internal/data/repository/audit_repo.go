package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"flight-booking/internal/data/entity"
	"flight-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditFilter struct {
	UserID     *uuid.UUID
	EntityType string
	Since      time.Time
	Limit      int
}

// AuditRepository only appends and reads; audit_logs rows are never
// updated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, log *entity.AuditLog) error
	FindAll(ctx context.Context, filter AuditFilter) ([]*entity.AuditLog, error)
}

type auditRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAuditRepository(db database.PgxIface, log *zap.Logger) AuditRepository {
	return &auditRepository{
		db:  db,
		log: log.With(zap.String("repository", "audit")),
	}
}

func (r *auditRepository) Append(ctx context.Context, entry *entity.AuditLog) error {
	var changes []byte
	if entry.Changes != nil {
		b, err := json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("encode audit changes: %w", err)
		}
		changes = b
	}

	query := `
		INSERT INTO audit_logs (id, timestamp, user_id, user_name, user_role, action, entity_type, entity_id, changes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		entry.ID,
		entry.Timestamp,
		entry.UserID,
		entry.UserName,
		entry.UserRole,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		changes,
	)
	if err != nil {
		r.log.Error("Failed to append audit log",
			zap.Error(err),
			zap.String("action", string(entry.Action)),
			zap.String("user_id", entry.UserID.String()),
		)
		return fmt.Errorf("append audit log %s: %w", entry.Action, err)
	}

	return nil
}

func (r *auditRepository) FindAll(ctx context.Context, filter AuditFilter) ([]*entity.AuditLog, error) {
	conds := []string{"timestamp >= $1"}
	args := []any{filter.Since}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		conds = append(conds, fmt.Sprintf("entity_type = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, timestamp, user_id, user_name, user_role, action, entity_type, entity_id, changes
		FROM audit_logs
		WHERE %s
		ORDER BY timestamp DESC
		LIMIT $%d
	`, strings.Join(conds, " AND "), len(args))

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list audit logs", zap.Error(err))
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []*entity.AuditLog
	for rows.Next() {
		var (
			entry   entity.AuditLog
			changes []byte
		)
		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.UserID,
			&entry.UserName,
			&entry.UserRole,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&changes,
		)
		if err != nil {
			r.log.Error("Failed to scan audit log row", zap.Error(err))
			return nil, fmt.Errorf("scan audit log row: %w", err)
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &entry.Changes); err != nil {
				return nil, fmt.Errorf("decode audit changes: %w", err)
			}
		}
		logs = append(logs, &entry)
	}

	return logs, rows.Err()
}
