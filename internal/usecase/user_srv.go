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

type UserService interface {
	CreateUser(ctx context.Context, actor entity.Actor, req *request.CreateUserRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, actor entity.Actor, userID string) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, actor entity.Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	UpdateUser(ctx context.Context, actor entity.Actor, userID string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeactivateUser(ctx context.Context, actor entity.Actor, userID string) error
}

type userService struct {
	repo  *repository.Repository
	audit *auditRecorder
	now   func() time.Time
	log   *zap.Logger
}

func NewUserService(repo *repository.Repository, audit *auditRecorder, now func() time.Time, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		audit: audit,
		now:   now,
		log:   log.With(zap.String("service", "user")),
	}
}

func (us *userService) CreateUser(ctx context.Context, actor entity.Actor, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionManageUsers); err != nil {
		return nil, err
	}
	if err := validate(us.log, "Create user", req); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		us.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := us.now().UTC()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashedPassword,
		Role:         entity.UserRole(req.Role),
		IsActive:     true,
	}

	err = us.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := us.repo.User.Create(ctx, user); err != nil {
			return err
		}
		return us.audit.record(ctx, actor, entity.AuditUserCreated, entity.EntityUser, user.ID, map[string]any{
			"email": user.Email,
			"role":  user.Role,
		})
	})
	if err != nil {
		us.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("create user: %w", err)
	}

	us.log.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("by", actor.ID.String()))

	res := response.UserToResponse(user)
	return &res, nil
}

func (us *userService) GetUser(ctx context.Context, actor entity.Actor, userID string) (*response.UserResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionManageUsers); err != nil {
		return nil, err
	}

	user, err := us.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := response.UserToResponse(user)
	return &res, nil
}

func (us *userService) GetAllUsers(ctx context.Context, actor entity.Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := policy.Authorize(actor.Role, policy.ActionManageUsers); err != nil {
		return nil, err
	}
	req.Normalize()

	users, err := us.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := us.repo.User.Count(ctx)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(userResponses, req.Page, req.PerPage, total), nil
}

func (us *userService) UpdateUser(ctx context.Context, actor entity.Actor, userID string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionManageUsers); err != nil {
		return nil, err
	}
	if err := validate(us.log, "Update user", req); err != nil {
		return nil, err
	}

	user, err := us.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.Name != nil {
		user.Name = *req.Name
		changes["name"] = *req.Name
	}
	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
		changes["role"] = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
		changes["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashed
		changes["password"] = "changed"
	}
	if len(changes) == 0 {
		res := response.UserToResponse(user)
		return &res, nil
	}
	if user.ID == actor.ID && (user.Role != entity.RoleAdmin || !user.IsActive) {
		return nil, fmt.Errorf("%w: admins cannot demote or deactivate themselves", apperr.ErrInvalidInput)
	}
	user.UpdatedAt = us.now().UTC()

	err = us.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := us.repo.User.Update(ctx, user); err != nil {
			return err
		}
		return us.audit.record(ctx, actor, entity.AuditUserUpdated, entity.EntityUser, user.ID, changes)
	})
	if err != nil {
		us.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("update user: %w", err)
	}

	us.log.Info("User updated", zap.String("user_id", userID), zap.Any("fields", keys(changes)))

	res := response.UserToResponse(user)
	return &res, nil
}

// DeactivateUser is a soft delete; the row stays for audit references.
func (us *userService) DeactivateUser(ctx context.Context, actor entity.Actor, userID string) error {
	if err := policy.Authorize(actor.Role, policy.ActionManageUsers); err != nil {
		return err
	}

	user, err := us.find(ctx, userID)
	if err != nil {
		return err
	}
	if user.ID == actor.ID {
		return fmt.Errorf("%w: admins cannot deactivate themselves", apperr.ErrInvalidInput)
	}

	user.IsActive = false
	user.UpdatedAt = us.now().UTC()

	err = us.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := us.repo.User.Update(ctx, user); err != nil {
			return err
		}
		return us.audit.record(ctx, actor, entity.AuditUserDeleted, entity.EntityUser, user.ID, map[string]any{
			"email": user.Email,
		})
	})
	if err != nil {
		us.log.Error("Failed to deactivate user", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("deactivate user: %w", err)
	}

	us.log.Info("User deactivated", zap.String("user_id", userID), zap.String("email", user.Email))
	return nil
}

func (us *userService) find(ctx context.Context, userID string) (*entity.User, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}

	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", id)
	}
	return user, nil
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
