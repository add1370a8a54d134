package usecase

import (
	"context"
	"fmt"
	"time"

	"flight-booking/internal/data/entity"
	"flight-booking/internal/data/repository"
	"flight-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedAdmin creates the first admin when none exists and seed credentials
// are configured. It reports whether a user was created.
func SeedAdmin(ctx context.Context, repo *repository.Repository, cfg utils.SeedConfig, log *zap.Logger) (bool, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return false, nil
	}

	admins, err := repo.User.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}

	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash seed password: %w", err)
	}

	name := cfg.AdminName
	if name == "" {
		name = "Administrator"
	}

	now := time.Now().UTC()
	admin := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        cfg.AdminEmail,
		Name:         name,
		PasswordHash: hashed,
		Role:         entity.RoleAdmin,
		IsActive:     true,
	}
	if err := repo.User.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create seed admin: %w", err)
	}

	log.Info("Seeded admin user", zap.String("email", admin.Email))
	return true, nil
}
