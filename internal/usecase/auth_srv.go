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
	"flight-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Me(ctx context.Context, actor entity.Actor) (*response.UserResponse, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate
	if err := validate(s.log, "Login", req); err != nil {
		return nil, err
	}

	// 2. Find user
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	// 4. Check if user is active
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("%w: account is deactivated", apperr.ErrUnauthorized)
	}

	// 5. Issue token
	ttl := time.Duration(s.config.JWT.ExpiryHours) * time.Hour
	token, expiresAt, err := utils.GenerateToken(user.Actor(), s.config.JWT.Secret, ttl)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &response.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        response.UserToResponse(user),
	}, nil
}

// Me reloads the caller so a deactivated account stops working before its
// token expires.
func (s *authService) Me(ctx context.Context, actor entity.Actor) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, actor.ID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", actor.ID.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("%w: account not found or deactivated", apperr.ErrUnauthorized)
	}

	res := response.UserToResponse(user)
	return &res, nil
}
