// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/dto"
	businessflow "github.com/appesteticaprohub/EsteticaProAdmin-sub001/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdminUserManagementHandlerInterface defines the contract for user management handlers
type AdminUserManagementHandlerInterface interface {
	ListUsers(c fiber.Ctx) error
	ExportUsers(c fiber.Ctx) error
}

// AdminUserManagementHandler implements AdminUserManagementHandlerInterface
type AdminUserManagementHandler struct {
	flow      businessflow.AdminUserFlow
	validator *validator.Validate
}

func NewAdminUserManagementHandler(flow businessflow.AdminUserFlow) AdminUserManagementHandlerInterface {
	return &AdminUserManagementHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *AdminUserManagementHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// SuccessResponse standard JSON success
func (h *AdminUserManagementHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListUsers returns a filtered, paginated user listing
func (h *AdminUserManagementHandler) ListUsers(c fiber.Ctx) error {
	var req dto.ListUsersRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.flow.ListUsers(h.createRequestContext(c, "/api/v1/admin/users"), &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", businessErrorCode(err), err.Error())
		}
		log.Println("User listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "User listing failed", "USER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Users listed", result)
}

// ExportUsers streams the filtered user set as an XLSX attachment
func (h *AdminUserManagementHandler) ExportUsers(c fiber.Ctx) error {
	var req dto.ListUsersRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	filename, content, err := h.flow.ExportUsers(h.createRequestContext(c, "/api/v1/admin/users/export"), &req, metadata)
	if err != nil {
		log.Println("User export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "User export failed", "USER_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	return c.Send(content)
}

func (h *AdminUserManagementHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 60*time.Second)
}
