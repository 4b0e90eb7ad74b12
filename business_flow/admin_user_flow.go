// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/dto"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/repository"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/utils"
	"github.com/xuri/excelize/v2"
)

// AdminUserFlow represents the back-office user management flow
type AdminUserFlow interface {
	ListUsers(ctx context.Context, req *dto.ListUsersRequest) (*dto.ListUsersResponse, error)
	ExportUsers(ctx context.Context, req *dto.ListUsersRequest, metadata *ClientMetadata) (filename string, content []byte, err error)
}

// AdminUserFlowImpl lists and exports platform users
type AdminUserFlowImpl struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
}

func NewAdminUserFlow(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository) AdminUserFlow {
	return &AdminUserFlowImpl{
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

func (f *AdminUserFlowImpl) ListUsers(ctx context.Context, req *dto.ListUsersRequest) (*dto.ListUsersResponse, error) {
	filter, page, pageSize, err := buildUserListFilter(req)
	if err != nil {
		return nil, err
	}

	total, err := f.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("USER_COUNT_FAILED", "Failed to count users", err)
	}

	users, err := f.userRepo.Page(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("USER_LIST_FAILED", "Failed to list users", err)
	}

	resp := &dto.ListUsersResponse{
		Users:    make([]dto.UserDTO, 0, len(users)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, user := range users {
		resp.Users = append(resp.Users, ToUserDTO(*user))
	}
	return resp, nil
}

func (f *AdminUserFlowImpl) ExportUsers(ctx context.Context, req *dto.ListUsersRequest, metadata *ClientMetadata) (string, []byte, error) {
	filter, _, _, err := buildUserListFilter(req)
	if err != nil {
		return "", nil, err
	}

	users, err := f.userRepo.Page(ctx, filter, 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("USER_EXPORT_FAILED", "Failed to fetch users for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := xl.GetSheetName(0)
	xl.SetSheetName(sheet, "users")
	sheet = "users"

	header := []string{"id", "uuid", "email", "full_name", "country", "specialty", "subscription_status", "is_active", "created_at", "last_login_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, u := range users {
		fullName := ""
		if u.FullName != nil {
			fullName = *u.FullName
		}
		country := ""
		if u.Country != nil {
			country = *u.Country
		}
		specialty := ""
		if u.Specialty != nil {
			specialty = *u.Specialty
		}
		lastLogin := ""
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatUint(uint64(u.ID), 10),
			u.UUID.String(),
			u.Email,
			fullName,
			country,
			specialty,
			u.SubscriptionStatus,
			strconv.FormatBool(utils.IsTrue(u.IsActive)),
			u.CreatedAt.UTC().Format(time.RFC3339),
			lastLogin,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	f.logExport(ctx, len(users), metadata)

	filename := "users_export.xlsx"
	return filename, buf.Bytes(), nil
}

// buildUserListFilter translates list parameters into a UserFilter plus
// normalized pagination. Defaults: page 1, page size 50.
func buildUserListFilter(req *dto.ListUsersRequest) (models.UserFilter, int, int, error) {
	var filter models.UserFilter

	page := 1
	pageSize := 50
	if req != nil {
		if req.Page != 0 {
			if req.Page < 1 {
				return filter, 0, 0, NewBusinessError("INVALID_PAGE", "Page must be at least 1", ErrInvalidPage)
			}
			page = req.Page
		}
		if req.PageSize != 0 {
			if req.PageSize < 1 || req.PageSize > 100 {
				return filter, 0, 0, NewBusinessError("INVALID_PAGE_SIZE", "Page size must be between 1 and 100", ErrInvalidPageSize)
			}
			pageSize = req.PageSize
		}
		if c := strings.TrimSpace(req.Country); c != "" {
			filter.Country = &c
		}
		if s := strings.TrimSpace(req.Specialty); s != "" {
			filter.Specialty = &s
		}
		if st := strings.TrimSpace(req.SubscriptionStatus); st != "" {
			filter.SubscriptionStatusIn = []string{st}
		}
	}

	return filter, page, pageSize, nil
}

// logExport writes a best-effort audit entry; failures are swallowed
func (f *AdminUserFlowImpl) logExport(ctx context.Context, count int, metadata *ClientMetadata) {
	if f.auditRepo == nil {
		return
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	description := strconv.Itoa(count) + " users exported"
	audit := &models.AuditLog{
		Action:      models.AuditActionUsersExported,
		Description: &description,
		Success:     utils.ToPtr(true),
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}
	if adminID, ok := ctx.Value(utils.AdminIDKey).(uint); ok {
		audit.AdminID = &adminID
	}
	if requestID, ok := ctx.Value(utils.RequestIDKey).(string); ok && requestID != "" {
		audit.RequestID = &requestID
	}

	_ = f.auditRepo.Save(ctx, audit)
}
