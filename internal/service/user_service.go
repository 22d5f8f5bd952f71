package service

import (
	"context"
	"errors"

	"github.com/spec-kit/docboard/internal/auth"
	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/internal/events"
	"github.com/spec-kit/docboard/internal/repository"
	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

// UserService covers account administration.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// List returns all accounts without password hashes.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// ChangeRole assigns a new role to an account. Admin only. The new role is
// effective on the target's next request; no re-login is required.
func (s *UserService) ChangeRole(ctx context.Context, actor *auth.Principal, userID int64, role domain.Role) (*domain.User, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !domain.ValidRole(role) {
		return nil, errorutil.NewValidationError("invalid role", map[string]any{
			"role": "must be one of ADMIN, EDITOR, USER",
		})
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewNotFound("user", nil)
		}
		return nil, errorutil.NewInternalError(err)
	}
	oldRole := user.Role

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewNotFound("user", nil)
		}
		return nil, errorutil.NewInternalError(err)
	}
	user.Role = role

	if oldRole != role {
		publish(ctx, s.dispatcher, events.EventUserRoleChanged, actor.ID, events.UserRoleChangedPayload{
			UserID:  userID,
			OldRole: oldRole,
			NewRole: role,
		})
	}
	return user, nil
}
