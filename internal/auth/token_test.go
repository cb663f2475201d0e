package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
)

func TestTokenRoundtrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	tokenStr, expiresAt, err := tm.GenerateToken("user-1", domain.RoleAgent)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleAgent, claims.Role)
	assert.NotEmpty(t, claims.ID, "jti must be set for revocation")
}

func TestTokenDistinctIdentifiers(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	first, _, err := tm.GenerateToken("user-1", domain.RoleUser)
	require.NoError(t, err)
	second, _, err := tm.GenerateToken("user-1", domain.RoleUser)
	require.NoError(t, err)

	firstClaims, err := tm.ParseToken(first)
	require.NoError(t, err)
	secondClaims, err := tm.ParseToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	other := NewTokenManager("other-secret", 60)

	tokenStr, _, err := tm.GenerateToken("user-1", domain.RoleUser)
	require.NoError(t, err)

	_, err = other.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	_, err := tm.ParseToken("not-a-token")
	assert.Error(t, err)
}
