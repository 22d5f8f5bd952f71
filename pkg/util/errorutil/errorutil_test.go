package errorutil_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/docboard/pkg/util/errorutil"
)

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, errorutil.ToDomainError(nil))
}

func TestToDomainErrorPassthrough(t *testing.T) {
	original := errorutil.NewConflict("email already registered", map[string]any{"email": "a@b.c"})

	converted := errorutil.ToDomainError(original)
	assert.Equal(t, "CONFLICT", converted.Code)
	assert.Equal(t, http.StatusConflict, converted.HTTPStatus)
	assert.Equal(t, "a@b.c", converted.Details["email"])

	// Wrapping does not lose the classification.
	wrapped := fmt.Errorf("handler: %w", original)
	assert.Equal(t, "CONFLICT", errorutil.ToDomainError(wrapped).Code)
}

func TestToDomainErrorFiberError(t *testing.T) {
	converted := errorutil.ToDomainError(fiber.ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, converted.HTTPStatus)
	assert.Equal(t, "BAD_REQUEST", converted.Code)

	converted = errorutil.ToDomainError(fiber.ErrMethodNotAllowed)
	assert.Equal(t, http.StatusMethodNotAllowed, converted.HTTPStatus)
	assert.Equal(t, "METHOD_NOT_ALLOWED", converted.Code)
}

func TestToDomainErrorPgxNoRows(t *testing.T) {
	converted := errorutil.ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)
	assert.Equal(t, "NOT_FOUND", converted.Code)
}

func TestToDomainErrorUnknownCollapsesToInternal(t *testing.T) {
	cause := errors.New("disk on fire")

	converted := errorutil.ToDomainError(cause)
	assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	assert.Equal(t, "INTERNAL_ERROR", converted.Code)
	assert.Equal(t, "internal server error", converted.Message)
	assert.ErrorIs(t, converted, cause)
}

func TestInternalErrorRedactsCause(t *testing.T) {
	cause := errors.New("dsn=postgres://root:hunter2@db/prod")
	err := errorutil.NewInternalError(cause)

	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)

	// The outward message stays generic; the cause survives for logging only.
	assert.Equal(t, "internal server error", domainErr.Message)
	assert.Contains(t, domainErr.Error(), "hunter2")
	assert.ErrorIs(t, err, cause)
}

func TestConstructorStatusAndCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "validation", err: errorutil.NewValidationError("bad", nil), wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "not found", err: errorutil.NewNotFound("document", nil), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "unauthenticated", err: errorutil.NewUnauthenticated("who are you"), wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "forbidden", err: errorutil.NewForbidden("not yours"), wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "conflict", err: errorutil.NewConflict("taken", nil), wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "rate limited", err: errorutil.NewTooManyRequests("slow down", nil), wantStatus: http.StatusTooManyRequests, wantCode: "RATE_LIMITED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var domainErr *errorutil.DomainError
			require.ErrorAs(t, tc.err, &domainErr)
			assert.Equal(t, tc.wantStatus, domainErr.HTTPStatus)
			assert.Equal(t, tc.wantCode, domainErr.Code)
		})
	}
}

func TestNotFoundMessageNamesResource(t *testing.T) {
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, errorutil.NewNotFound("document", nil), &domainErr)
	assert.Equal(t, "document not found", domainErr.Message)
}
