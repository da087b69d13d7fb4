package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	user := &models.User{Name: "Ada", Email: "ada@example.com", Role: models.RoleOwner}
	user.ID = uuid.New()
	return user
}

func TestIssuerRoundTrip(t *testing.T) {
	issuer, err := NewIssuer("secret")
	require.NoError(t, err)

	user := testUser()
	token, err := issuer.Generate(user)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleOwner, claims.Role)
}

func TestIssuerRejectsBadTokens(t *testing.T) {
	issuer, err := NewIssuer("secret")
	require.NoError(t, err)

	other, err := NewIssuer("different")
	require.NoError(t, err)

	foreign, err := other.Generate(testUser())
	require.NoError(t, err)

	_, err = issuer.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: uuid.NewString(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuerRejectsExpiredToken(t *testing.T) {
	issuer, err := NewIssuer("secret")
	require.NoError(t, err)

	issued := time.Now().Add(-2 * SessionTTL)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Generate(testUser())
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("")
	assert.Error(t, err)
}
