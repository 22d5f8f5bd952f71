package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/docboard/internal/auth"
	"github.com/spec-kit/docboard/internal/config"
	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/internal/events"
	"github.com/spec-kit/docboard/internal/repository/memory"
	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

// eventRecorder captures every published event so tests can assert on the
// activity stream without a real subscriber.
type eventRecorder struct {
	mu       sync.Mutex
	recorded []events.Event
}

func recordEvents(dispatcher events.Dispatcher) *eventRecorder {
	rec := &eventRecorder{}
	handler := func(_ context.Context, event events.Event) error {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.recorded = append(rec.recorded, event)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventDocumentCreated,
		events.EventDocumentUpdated,
		events.EventDocumentStatusChanged,
		events.EventDocumentDeleted,
		events.EventUserRegistered,
		events.EventUserRoleChanged,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
	return rec
}

func (r *eventRecorder) ofType(eventType events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []events.Event
	for _, event := range r.recorded {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "service-test-secret",
		BcryptCost: bcrypt.MinCost,
	}
}

func seedPrincipal(t *testing.T, users *memory.UserRepository, name, email string, role domain.Role) *auth.Principal {
	t.Helper()

	user := &domain.User{Name: name, Email: email, PasswordHash: "stored-hash", Role: role}
	require.NoError(t, users.Create(context.Background(), user))
	return &auth.Principal{ID: user.ID, Name: name, Email: email, Role: role}
}

func requireDomainError(t *testing.T, err error, status int, code string) *errorutil.DomainError {
	t.Helper()

	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, status, domainErr.HTTPStatus)
	require.Equal(t, code, domainErr.Code)
	return domainErr
}
