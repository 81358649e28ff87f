package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(opts ...Option) *Service {
	return NewService(DefaultUsers(), "test-secret", time.Hour, opts...)
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService()

	user, err := svc.Authenticate("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.Equal(t, "admin", user.Username)

	_, err = svc.Authenticate("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("ghost", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueAndVerifyToken(t *testing.T) {
	svc := newTestService()

	user, err := svc.Authenticate("operator", "operator123")
	require.NoError(t, err)

	token, err := svc.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "operator", claims.Username)
	assert.Equal(t, RoleUser, claims.Role)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestService()
	verifier := NewService(DefaultUsers(), "other-secret", time.Hour)

	user, _ := issuer.Authenticate("admin", "admin123")
	token, err := issuer.IssueToken(user)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	svc := newTestService(WithClock(func() time.Time { return past }))

	user, _ := svc.Authenticate("admin", "admin123")
	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyBearer(t *testing.T) {
	svc := newTestService()
	user, _ := svc.Authenticate("viewer", "viewer123")
	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyBearer("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "viewer", claims.Username)

	_, err = svc.VerifyBearer("")
	assert.Error(t, err)

	_, err = svc.VerifyBearer(token)
	assert.Error(t, err, "scheme-less header must be rejected")

	_, err = svc.VerifyBearer("Basic " + token)
	assert.Error(t, err)
}

func TestIsolatedFixtures(t *testing.T) {
	custom := NewService([]User{
		{ID: "u-1", Username: "solo", Name: "Solo Tester", Role: RoleUser, Password: "pw"},
	}, "s", time.Hour)

	_, err := custom.Authenticate("admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "default fixture must not leak in")

	user, err := custom.Authenticate("solo", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
}
