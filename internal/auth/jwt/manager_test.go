package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(strings.Repeat("a", 32), "brightonhub-test", 15*time.Minute, 7*24*time.Hour)
}

func TestManager_GenerateAndValidate(t *testing.T) {
	m := newTestManager()

	pair, err := m.GenerateTokenPair("user-1", "Ada", "ada@example.com", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.EqualValues(t, 900, pair.ExpiresIn)

	claims, err := m.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestManager_ValidateToken_Invalid(t *testing.T) {
	m := newTestManager()

	_, err := m.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// 不同密钥签发的令牌
	other := NewManager(strings.Repeat("b", 32), "other", time.Minute, time.Hour)
	pair, err := other.GenerateTokenPair("user-1", "Ada", "ada@example.com", "user")
	require.NoError(t, err)
	_, err = m.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ValidateToken_Expired(t *testing.T) {
	m := NewManager(strings.Repeat("a", 32), "test", -time.Minute, time.Hour)
	pair, err := m.GenerateTokenPair("user-1", "Ada", "ada@example.com", "user")
	require.NoError(t, err)

	_, err = m.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_RefreshAccessToken(t *testing.T) {
	m := newTestManager()

	pair, err := m.GenerateTokenPair("user-1", "Ada", "ada@example.com", "vendor")
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := m.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "vendor", claims.Role)
}
