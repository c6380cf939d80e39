package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = strings.Repeat("x", MinSecretLength)

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(DefaultJWTConfig(testSecret))
	require.NoError(t, err)
	return svc
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, expiresAt, err := svc.GenerateAccessToken("u-1", "paul@arrakis.test", []string{"Manager"})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UserID)
	assert.Equal(t, "paul@arrakis.test", user.Email)
	assert.Equal(t, []string{"Manager"}, user.Roles)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := newTestService(t)

	other, err := NewJWTService(DefaultJWTConfig(strings.Repeat("y", MinSecretLength)))
	require.NoError(t, err)
	foreign, _, err := other.GenerateAccessToken("u-1", "", []string{"Admin"})
	require.NoError(t, err)

	expiredCfg := DefaultJWTConfig(testSecret)
	expiredCfg.AccessTokenTTL = -time.Minute
	expiredSvc, err := NewJWTService(expiredCfg)
	require.NoError(t, err)
	expired, _, err := expiredSvc.GenerateAccessToken("u-1", "", []string{"Admin"})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u-1", Roles: []string{"Admin"}}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      expired,
		"unsigned":     none,
		"empty":        "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}

func TestNewJWTService_ShortSecret(t *testing.T) {
	_, err := NewJWTService(DefaultJWTConfig("short"))
	assert.Error(t, err)
}
