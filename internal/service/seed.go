package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/docboard/internal/auth"
	"github.com/spec-kit/docboard/internal/config"
	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/internal/repository"
)

// EnsureAdminUser creates the bootstrap ADMIN account when seed
// configuration is present. Running it on every startup is safe: an
// existing account is left untouched.
func EnsureAdminUser(ctx context.Context, users repository.UserRepository, cfg config.SeedConfig, bcryptCost int, logger *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Info("admin seed not configured, skipping")
		return nil
	}

	if _, err := users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, bcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil
		}
		return err
	}

	logger.Info("seeded admin user", zap.String("email", admin.Email))
	return nil
}
