package usecase

import (
	"context"
	"fmt"
	"time"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/data/repository"
	"flight-booking/internal/dto/request"
	"flight-booking/internal/dto/response"
	"flight-booking/internal/policy"
	"flight-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	auditWindowDays = 30
	auditListLimit  = 1000
)

// auditRecorder appends entries for mutating operations. A failed or
// timed-out append is reported as ErrAuditFailure so the caller's
// transaction rolls back.
type auditRecorder struct {
	repo    repository.AuditRepository
	timeout time.Duration
	now     func() time.Time
}

func newAuditRecorder(repo repository.AuditRepository, timeout time.Duration, now func() time.Time) *auditRecorder {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &auditRecorder{repo: repo, timeout: timeout, now: now}
}

func (a *auditRecorder) record(
	ctx context.Context,
	actor entity.Actor,
	action entity.AuditAction,
	entityType string,
	entityID uuid.UUID,
	changes map[string]any,
) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	id := entityID
	entry := &entity.AuditLog{
		ID:         uuid.New(),
		Timestamp:  a.now().UTC(),
		UserID:     actor.ID,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   &id,
		Changes:    changes,
	}

	if err := a.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("%w: append %s for %s %s: %w", apperr.ErrAuditFailure, action, entityType, entityID, err)
	}
	return nil
}

type AuditService interface {
	ListAuditLogs(ctx context.Context, actor entity.Actor, req *request.AuditLogRequest) ([]response.AuditLogResponse, error)
}

type auditService struct {
	repo repository.AuditRepository
	now  func() time.Time
	log  *zap.Logger
}

func NewAuditService(repo repository.AuditRepository, now func() time.Time, log *zap.Logger) AuditService {
	return &auditService{
		repo: repo,
		now:  now,
		log:  log.With(zap.String("service", "audit")),
	}
}

// ListAuditLogs returns the newest entries of the last 30 days.
func (s *auditService) ListAuditLogs(ctx context.Context, actor entity.Actor, req *request.AuditLogRequest) ([]response.AuditLogResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionViewAuditLogs); err != nil {
		return nil, err
	}
	if err := validate(s.log, "List audit logs", req); err != nil {
		return nil, err
	}

	filter := repository.AuditFilter{
		EntityType: req.EntityType,
		Since:      utils.DaysBack(s.now(), auditWindowDays),
		Limit:      auditListLimit,
	}
	if req.UserID != "" {
		userID, err := parseID(req.UserID, "user")
		if err != nil {
			return nil, err
		}
		filter.UserID = &userID
	}

	logs, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list audit logs", zap.Error(err))
		return nil, fmt.Errorf("list audit logs: %w", err)
	}

	out := make([]response.AuditLogResponse, len(logs))
	for i, l := range logs {
		out[i] = response.AuditLogToResponse(l)
	}
	return out, nil
}
