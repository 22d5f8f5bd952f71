package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/docboard/internal/auth"
	"github.com/spec-kit/docboard/internal/config"
	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/internal/events"
	"github.com/spec-kit/docboard/internal/repository"
	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

// AuthService coordinates registration, login and password flows.
type AuthService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret),
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterInput carries a registration request. Role is optional; when nil
// the account defaults to USER.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     *domain.Role
}

// Register creates a new account. Requesting any role other than USER is an
// admin-only operation; everyone else gets USER regardless of actor.
func (s *AuthService) Register(ctx context.Context, input RegisterInput, actor *auth.Principal) (*domain.User, error) {
	role := domain.RoleUser
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, errorutil.NewValidationError("invalid role", map[string]any{
				"role": "must be one of ADMIN, EDITOR, USER",
			})
		}
		if *input.Role != domain.RoleUser {
			if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
				return nil, err
			}
		}
		role = *input.Role
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errorutil.NewConflict("email already registered", map[string]any{
				"email": input.Email,
			})
		}
		return nil, errorutil.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})

	// The hash never leaves the service layer.
	user.PasswordHash = ""
	return user, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password answer identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, errorutil.NewUnauthenticated("invalid email or password")
		}
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", time.Time{}, errorutil.NewUnauthenticated("invalid email or password")
	}

	token, expiresAt, err := s.tokenMgr.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}

	user.PasswordHash = ""
	return user, token, expiresAt, nil
}

// ChangePassword verifies the current password before storing the new hash.
// Outstanding session tokens stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, principal *auth.Principal, currentPassword, newPassword string) error {
	if principal == nil {
		return errorutil.NewUnauthenticated("authentication required")
	}

	user, err := s.users.GetByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorutil.NewUnauthenticated("authentication required")
		}
		return errorutil.NewInternalError(err)
	}
	if !auth.VerifyPassword(user.PasswordHash, currentPassword) {
		return errorutil.NewUnauthenticated("invalid email or password")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return errorutil.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return errorutil.NewInternalError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
