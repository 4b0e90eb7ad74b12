// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/dto"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/services"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testAdminPassword = "S3cure-AdminPass!"

func newAuthTestFlow(t *testing.T) (AdminAuthFlow, *fakeAdminRepo, *fakeAuditRepo, services.TokenService) {
	t.Helper()

	tokenService, err := services.NewTokenService(
		1*time.Hour, 24*time.Hour,
		"test-issuer", "test-audience",
		false, "", "",
		"test-secret-key-with-32-characters!!",
	)
	require.NoError(t, err)

	adminRepo := &fakeAdminRepo{}
	auditRepo := &fakeAuditRepo{}
	return NewAdminAuthFlow(adminRepo, auditRepo, tokenService), adminRepo, auditRepo, tokenService
}

func seedAdmin(t *testing.T, repo *fakeAdminRepo, username string, active bool) *models.Admin {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.AdminRoleAdmin,
		IsActive:     utils.ToPtr(active),
		CreatedAt:    utils.UTCNow(),
	}
	require.NoError(t, repo.Save(context.Background(), admin))
	return admin
}

func TestAdminLogin(t *testing.T) {
	metadata := NewClientMetadata("127.0.0.1", "test-agent")

	t.Run("Successful", func(t *testing.T) {
		flow, adminRepo, auditRepo, tokenService := newAuthTestFlow(t)
		admin := seedAdmin(t, adminRepo, "estetica-admin", true)

		resp, err := flow.Login(context.Background(), &dto.AdminLoginRequest{
			Username: "estetica-admin",
			Password: testAdminPassword,
		}, metadata)
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, admin.ID, resp.Admin.ID)
		assert.Equal(t, admin.Username, resp.Admin.Username)
		assert.Equal(t, "Bearer", resp.Session.TokenType)
		assert.NotEmpty(t, resp.Session.AccessToken)
		assert.NotEmpty(t, resp.Session.RefreshToken)
		assert.Equal(t, utils.AccessTokenTTLSeconds, resp.Session.ExpiresIn)

		// The issued access token carries the admin identity.
		claims, err := tokenService.ValidateAdminToken(resp.Session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, claims.AdminID)
		assert.Equal(t, models.AdminRoleAdmin, claims.Role)
		assert.Equal(t, "access", claims.TokenType)

		// Last login was stamped and a success audit entry written.
		assert.NotNil(t, admin.LastLoginAt)
		logs, _ := auditRepo.ListByAction(context.Background(), models.AuditActionAdminLoginSuccess, 0, 0)
		require.Len(t, logs, 1)
		assert.Equal(t, admin.ID, *logs[0].AdminID)
	})

	t.Run("UnknownUsername", func(t *testing.T) {
		flow, _, auditRepo, _ := newAuthTestFlow(t)

		_, err := flow.Login(context.Background(), &dto.AdminLoginRequest{
			Username: "ghost",
			Password: testAdminPassword,
		}, metadata)
		require.Error(t, err)
		assert.True(t, IsAdminNotFound(err))

		logs, _ := auditRepo.ListByAction(context.Background(), models.AuditActionAdminLoginFailed, 0, 0)
		assert.Len(t, logs, 1)
	})

	t.Run("IncorrectPassword", func(t *testing.T) {
		flow, adminRepo, auditRepo, _ := newAuthTestFlow(t)
		seedAdmin(t, adminRepo, "estetica-admin", true)

		_, err := flow.Login(context.Background(), &dto.AdminLoginRequest{
			Username: "estetica-admin",
			Password: "wrong-password",
		}, metadata)
		require.Error(t, err)
		assert.True(t, IsIncorrectPassword(err))

		logs, _ := auditRepo.ListByAction(context.Background(), models.AuditActionAdminLoginFailed, 0, 0)
		assert.Len(t, logs, 1)
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		flow, adminRepo, _, _ := newAuthTestFlow(t)
		seedAdmin(t, adminRepo, "suspended-admin", false)

		_, err := flow.Login(context.Background(), &dto.AdminLoginRequest{
			Username: "suspended-admin",
			Password: testAdminPassword,
		}, metadata)
		require.Error(t, err)
		assert.True(t, IsAdminInactive(err))
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		flow, _, _, _ := newAuthTestFlow(t)

		_, err := flow.Login(context.Background(), &dto.AdminLoginRequest{Username: "someone"}, metadata)
		require.Error(t, err)
	})
}

func TestAdminRefreshToken(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		flow, adminRepo, _, tokenService := newAuthTestFlow(t)
		admin := seedAdmin(t, adminRepo, "estetica-admin", true)

		_, refreshToken, err := tokenService.GenerateAdminTokens(admin.ID, admin.Role)
		require.NoError(t, err)

		session, err := flow.RefreshToken(context.Background(), &dto.AdminRefreshTokenRequest{RefreshToken: refreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)

		claims, err := tokenService.ValidateAdminToken(session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, claims.AdminID)
	})

	t.Run("RejectsAccessToken", func(t *testing.T) {
		flow, adminRepo, _, tokenService := newAuthTestFlow(t)
		admin := seedAdmin(t, adminRepo, "estetica-admin", true)

		accessToken, _, err := tokenService.GenerateAdminTokens(admin.ID, admin.Role)
		require.NoError(t, err)

		_, err = flow.RefreshToken(context.Background(), &dto.AdminRefreshTokenRequest{RefreshToken: accessToken})
		require.Error(t, err)
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		flow, _, _, _ := newAuthTestFlow(t)

		_, err := flow.RefreshToken(context.Background(), &dto.AdminRefreshTokenRequest{RefreshToken: "not-a-jwt"})
		require.Error(t, err)
	})

	t.Run("RejectsEmpty", func(t *testing.T) {
		flow, _, _, _ := newAuthTestFlow(t)

		_, err := flow.RefreshToken(context.Background(), &dto.AdminRefreshTokenRequest{})
		require.Error(t, err)
	})
}
