package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familia-ledger/internal/domain/shared"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	actor := shared.Actor{
		ID:       uuid.New(),
		Email:    "ana@example.com",
		Username: "ana",
		FullName: "Ana Souza",
	}

	token, err := manager.Issue(actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verified, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, verified.ID)
	assert.Equal(t, "ana", verified.Username)
	assert.Equal(t, "Ana Souza", verified.FullName)
	assert.Equal(t, "Ana Souza", verified.DisplayName)
}

func TestTokenManager_DisplayNameFallsBackToUsername(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := manager.Issue(shared.Actor{ID: uuid.New(), Username: "bruno"})
	require.NoError(t, err)

	verified, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "bruno", verified.DisplayName)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenManager("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenManager("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(shared.Actor{ID: uuid.New(), Username: "ana"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Nanosecond)
	require.NoError(t, err)
	// NewTokenManager swaps a non-positive ttl for a default, so force the
	// short ttl directly.
	manager.ttl = -time.Minute

	token, err := manager.Issue(shared.Actor{ID: uuid.New(), Username: "ana"})
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = manager.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
