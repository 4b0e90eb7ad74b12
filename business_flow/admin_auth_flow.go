// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/dto"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/services"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/repository"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/utils"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthFlow represents the admin authentication flow used by handlers
type AdminAuthFlow interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
	RefreshToken(ctx context.Context, req *dto.AdminRefreshTokenRequest) (*dto.AdminSessionDTO, error)
}

// AdminAuthFlowImpl provides admin credential verification and token issuance
type AdminAuthFlowImpl struct {
	adminRepo    repository.AdminRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
}

func NewAdminAuthFlow(adminRepo repository.AdminRepository, auditRepo repository.AuditLogRepository, tokenService services.TokenService) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:    adminRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
	}
}

func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	if req == nil || len(req.Username) == 0 || len(req.Password) == 0 {
		return nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Username and password are required", ErrIncorrectPassword)
	}

	admin, err := af.adminRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		af.logLoginAttempt(ctx, nil, "unknown username", false, utils.ToPtr(req.Username), metadata)
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin not found", ErrAdminNotFound)
	}
	if !utils.IsTrue(admin.IsActive) {
		af.logLoginAttempt(ctx, admin, "inactive account", false, nil, metadata)
		return nil, NewBusinessError("ADMIN_INACTIVE", "Admin account is inactive", ErrAdminInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		af.logLoginAttempt(ctx, admin, "incorrect password", false, nil, metadata)
		return nil, NewBusinessError("ADMIN_INCORRECT_PASSWORD", "Incorrect password", ErrIncorrectPassword)
	}

	accessToken, refreshToken, err := af.tokenService.GenerateAdminTokens(admin.ID, admin.Role)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	now := utils.UTCNow()
	if err := af.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err == nil {
		admin.LastLoginAt = &now
	}

	af.logLoginAttempt(ctx, admin, "login successful", true, nil, metadata)

	return &dto.AdminLoginResponse{
		Admin: ToAdminDTO(*admin),
		Session: dto.AdminSessionDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    utils.AccessTokenTTLSeconds,
		},
	}, nil
}

func (af *AdminAuthFlowImpl) RefreshToken(ctx context.Context, req *dto.AdminRefreshTokenRequest) (*dto.AdminSessionDTO, error) {
	if req == nil || req.RefreshToken == "" {
		return nil, NewBusinessError("ADMIN_REFRESH_VALIDATION_FAILED", "Refresh token is required", services.ErrTokenInvalid)
	}

	accessToken, refreshToken, err := af.tokenService.RefreshAdminToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("ADMIN_REFRESH_FAILED", "Failed to refresh tokens", err)
	}

	return &dto.AdminSessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    utils.AccessTokenTTLSeconds,
	}, nil
}

// logLoginAttempt writes a best-effort audit entry; failures are swallowed
func (af *AdminAuthFlowImpl) logLoginAttempt(ctx context.Context, admin *models.Admin, description string, success bool, errMsg *string, metadata *ClientMetadata) {
	if af.auditRepo == nil {
		return
	}

	action := models.AuditActionAdminLoginFailed
	if success {
		action = models.AuditActionAdminLoginSuccess
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}
	if admin != nil {
		audit.AdminID = &admin.ID
	}
	if requestID, ok := ctx.Value(utils.RequestIDKey).(string); ok && requestID != "" {
		audit.RequestID = &requestID
	}

	_ = af.auditRepo.Save(ctx, audit)
}
