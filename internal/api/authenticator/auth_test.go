package authenticator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdeskhq/tripdesk/internal/config"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

func newTestAuthenticator(t *testing.T, secret string) *Authenticator {
	t.Helper()
	a, err := New(&config.Config{JWT_SECRET: secret, JWT_TTL_HOURS: 1})
	require.NoError(t, err)
	return a
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(&config.Config{})
	assert.Error(t, err)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	a := newTestAuthenticator(t, "test-secret")

	token, err := a.IssueSessionToken(&user.User{ID: 42, Role: user.RoleAdmin})
	require.NoError(t, err)

	claims, err := a.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, user.RoleAdmin, claims.Role)
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	a := newTestAuthenticator(t, "test-secret")
	b := newTestAuthenticator(t, "other-secret")

	token, err := a.IssueSessionToken(&user.User{ID: 1, Role: user.RoleSales})
	require.NoError(t, err)

	_, err = b.VerifySessionToken(token)
	assert.Error(t, err)
}

func TestSessionTokenRejectsGarbage(t *testing.T) {
	a := newTestAuthenticator(t, "test-secret")

	_, err := a.VerifySessionToken("not.a.token")
	assert.Error(t, err)
}

func TestSignedStateRoundTrip(t *testing.T) {
	a := newTestAuthenticator(t, "test-secret")
	a.stateSecret = "state-secret"

	state := OAuthState{
		CSRF:      "nonce",
		Redirect:  "https://crm.example.com/app",
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
	}

	encoded, err := a.GetSignedState(state)
	require.NoError(t, err)

	decoded, err := a.VerifySignedState(encoded)
	require.NoError(t, err)
	assert.Equal(t, state.CSRF, decoded.CSRF)
	assert.Equal(t, state.Redirect, decoded.Redirect)
}

func TestSignedStateRejectsTampering(t *testing.T) {
	a := newTestAuthenticator(t, "test-secret")
	a.stateSecret = "state-secret"

	encoded, err := a.GetSignedState(OAuthState{
		CSRF:      "nonce",
		ExpiresAt: time.Now().Add(time.Minute).Unix(),
	})
	require.NoError(t, err)

	// Flip a character in the payload.
	tampered := []byte(encoded)
	if tampered[0] == 'A' {
		tampered[0] = 'B'
	} else {
		tampered[0] = 'A'
	}

	_, err = a.VerifySignedState(string(tampered))
	assert.Error(t, err)
}

func TestSignedStateRejectsExpired(t *testing.T) {
	a := newTestAuthenticator(t, "test-secret")
	a.stateSecret = "state-secret"

	encoded, err := a.GetSignedState(OAuthState{
		CSRF:      "nonce",
		IssuedAt:  time.Now().Add(-10 * time.Minute).Unix(),
		ExpiresAt: time.Now().Add(-5 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = a.VerifySignedState(encoded)
	assert.ErrorContains(t, err, "expired")
}
