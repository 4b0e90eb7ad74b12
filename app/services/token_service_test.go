// Package services provides external service integrations and technical concerns like email and tokens
package services

import (
	"testing"
	"time"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-with-32-characters!!"

func newTestTokenService(t *testing.T, accessTTL time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(accessTTL, 24*time.Hour, "test-issuer", "test-audience", false, "", "", testSecretKey)
	require.NoError(t, err)
	return svc
}

func TestTokenService(t *testing.T) {
	t.Run("GenerateAndValidate", func(t *testing.T) {
		svc := newTestTokenService(t, 1*time.Hour)

		accessToken, refreshToken, err := svc.GenerateAdminTokens(42, models.AdminRoleAdmin)
		require.NoError(t, err)
		require.NotEmpty(t, accessToken)
		require.NotEmpty(t, refreshToken)
		assert.NotEqual(t, accessToken, refreshToken)

		claims, err := svc.ValidateAdminToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.AdminID)
		assert.Equal(t, models.AdminRoleAdmin, claims.Role)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))

		refreshClaims, err := svc.ValidateAdminToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, "refresh", refreshClaims.TokenType)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		svc := newTestTokenService(t, -1*time.Minute)

		accessToken, _, err := svc.GenerateAdminTokens(1, models.AdminRoleAdmin)
		require.NoError(t, err)

		_, err = svc.ValidateAdminToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("MalformedToken", func(t *testing.T) {
		svc := newTestTokenService(t, 1*time.Hour)

		_, err := svc.ValidateAdminToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		svc := newTestTokenService(t, 1*time.Hour)
		other, err := NewTokenService(1*time.Hour, 24*time.Hour, "test-issuer", "test-audience", false, "", "", "another-secret-key-with-32-chars!!!!")
		require.NoError(t, err)

		accessToken, _, err := svc.GenerateAdminTokens(1, models.AdminRoleAdmin)
		require.NoError(t, err)

		_, err = other.ValidateAdminToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("RefreshRotatesTokens", func(t *testing.T) {
		svc := newTestTokenService(t, 1*time.Hour)

		_, refreshToken, err := svc.GenerateAdminTokens(7, models.AdminRoleAdmin)
		require.NoError(t, err)

		newAccess, newRefresh, err := svc.RefreshAdminToken(refreshToken)
		require.NoError(t, err)

		claims, err := svc.ValidateAdminToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.AdminID)
		assert.Equal(t, "access", claims.TokenType)

		refreshClaims, err := svc.ValidateAdminToken(newRefresh)
		require.NoError(t, err)
		assert.Equal(t, "refresh", refreshClaims.TokenType)
	})

	t.Run("RefreshRejectsAccessToken", func(t *testing.T) {
		svc := newTestTokenService(t, 1*time.Hour)

		accessToken, _, err := svc.GenerateAdminTokens(7, models.AdminRoleAdmin)
		require.NoError(t, err)

		_, _, err = svc.RefreshAdminToken(accessToken)
		require.Error(t, err)
	})

	t.Run("RequiresSecretWithoutRSA", func(t *testing.T) {
		_, err := NewTokenService(1*time.Hour, 24*time.Hour, "iss", "aud", false, "", "", "")
		require.Error(t, err)
	})
}
