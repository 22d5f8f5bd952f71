package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/internal/events"
	"github.com/spec-kit/docboard/internal/repository/memory"
	"github.com/spec-kit/docboard/internal/service"
)

func newUserFixture(t *testing.T) (*service.UserService, *memory.UserRepository, *eventRecorder) {
	t.Helper()

	users := memory.NewUserRepository()
	dispatcher := events.NewInMemoryDispatcher()
	rec := recordEvents(dispatcher)
	return service.NewUserService(users, dispatcher), users, rec
}

func TestChangeRoleRequiresAdmin(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	target := seedPrincipal(t, users, "Tina", "tina@example.com", domain.RoleUser)

	tests := []struct {
		name       string
		actorEmail string
		actorRole  domain.Role
		anonymous  bool
		wantStatus int
		wantCode   string
	}{
		{name: "anonymous", anonymous: true, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "plain user", actorEmail: "user@example.com", actorRole: domain.RoleUser, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "editor", actorEmail: "editor@example.com", actorRole: domain.RoleEditor, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var err error
			if tc.anonymous {
				_, err = svc.ChangeRole(context.Background(), nil, target.ID, domain.RoleEditor)
			} else {
				principal := seedPrincipal(t, users, "Actor", tc.actorEmail, tc.actorRole)
				_, err = svc.ChangeRole(context.Background(), principal, target.ID, domain.RoleEditor)
			}
			requireDomainError(t, err, tc.wantStatus, tc.wantCode)
		})
	}
}

func TestChangeRoleByAdmin(t *testing.T) {
	svc, users, rec := newUserFixture(t)
	admin := seedPrincipal(t, users, "Root", "root@example.com", domain.RoleAdmin)
	target := seedPrincipal(t, users, "Tina", "tina@example.com", domain.RoleUser)

	updated, err := svc.ChangeRole(context.Background(), admin, target.ID, domain.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, updated.Role)
	assert.Empty(t, updated.PasswordHash)

	stored, err := users.GetByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, stored.Role)

	changed := rec.ofType(events.EventUserRoleChanged)
	require.Len(t, changed, 1)
	payload, ok := changed[0].Payload.(events.UserRoleChangedPayload)
	require.True(t, ok)
	assert.Equal(t, target.ID, payload.UserID)
	assert.Equal(t, domain.RoleUser, payload.OldRole)
	assert.Equal(t, domain.RoleEditor, payload.NewRole)
	assert.Equal(t, admin.ID, changed[0].ActorID)
}

func TestChangeRoleToSameRoleEmitsNoEvent(t *testing.T) {
	svc, users, rec := newUserFixture(t)
	admin := seedPrincipal(t, users, "Root", "root@example.com", domain.RoleAdmin)
	target := seedPrincipal(t, users, "Tina", "tina@example.com", domain.RoleUser)

	_, err := svc.ChangeRole(context.Background(), admin, target.ID, domain.RoleUser)
	require.NoError(t, err)
	assert.Empty(t, rec.ofType(events.EventUserRoleChanged))
}

func TestChangeRoleUnknownUser(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	admin := seedPrincipal(t, users, "Root", "root@example.com", domain.RoleAdmin)

	_, err := svc.ChangeRole(context.Background(), admin, 9999, domain.RoleEditor)
	requireDomainError(t, err, http.StatusNotFound, "NOT_FOUND")
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	admin := seedPrincipal(t, users, "Root", "root@example.com", domain.RoleAdmin)
	target := seedPrincipal(t, users, "Tina", "tina@example.com", domain.RoleUser)

	_, err := svc.ChangeRole(context.Background(), admin, target.ID, domain.Role("SUPERVISOR"))
	domainErr := requireDomainError(t, err, http.StatusBadRequest, "VALIDATION_FAILED")
	assert.Contains(t, domainErr.Details, "role")
}

func TestListUsersOmitsPasswordHashes(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	first := seedPrincipal(t, users, "Alice", "alice@example.com", domain.RoleUser)
	second := seedPrincipal(t, users, "Bob", "bob@example.com", domain.RoleEditor)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
	for _, user := range listed {
		assert.Empty(t, user.PasswordHash)
	}
}

func TestListUsersEmptyStore(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, listed)
	assert.Empty(t, listed)
}
