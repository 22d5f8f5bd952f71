package auth_test

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/docboard/internal/auth"
	"github.com/spec-kit/docboard/internal/domain"
)

func tokenTestUser() *domain.User {
	return &domain.User{
		ID:    42,
		Name:  "Dana",
		Email: "dana@example.com",
		Role:  domain.RoleEditor,
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	tm := auth.NewTokenManager("test-secret")

	token, expiresAt, err := tm.Issue(tokenTestUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(auth.SessionTTL), expiresAt, 5*time.Second)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "dana@example.com", claims.Email)
	assert.Equal(t, domain.RoleEditor, claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := auth.NewTokenManager("secret-one").Issue(tokenTestUser())
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret-two").Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenVerifyRejectsTampering(t *testing.T) {
	tm := auth.NewTokenManager("test-secret")
	token, _, err := tm.Issue(tokenTestUser())
	require.NoError(t, err)

	flipped := byte('A')
	if token[len(token)-1] == flipped {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	_, err = tm.Verify(tampered)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenVerifyRejectsGarbage(t *testing.T) {
	tm := auth.NewTokenManager("test-secret")
	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := tm.Verify(raw)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "input %q", raw)
	}
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	claims := &auth.Claims{
		UserID: 42,
		Email:  "dana@example.com",
		Role:   domain.RoleEditor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.NewTokenManager("test-secret").Verify(expired)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenVerifyRejectsWrongAlgorithm(t *testing.T) {
	claims := &auth.Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.NewTokenManager("test-secret").Verify(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
