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

// BroadcastHandlerInterface defines the contract for broadcast handlers
type BroadcastHandlerInterface interface {
	ProcessBatch(c fiber.Ctx) error
	PreviewAudience(c fiber.Ctx) error
}

// BroadcastHandler implements BroadcastHandlerInterface
type BroadcastHandler struct {
	flow      businessflow.BroadcastFlow
	validator *validator.Validate
}

func NewBroadcastHandler(flow businessflow.BroadcastFlow) BroadcastHandlerInterface {
	return &BroadcastHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *BroadcastHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *BroadcastHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ProcessBatch runs one tick of a broadcast: resolve the audience, deliver
// one page at the given offset, and report the cursor for the next tick.
func (h *BroadcastHandler) ProcessBatch(c fiber.Ctx) error {
	var req dto.BroadcastBatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	// Long timeout: a 500-recipient email page at a modest send rate takes minutes.
	result, err := h.flow.ProcessBatch(h.createRequestContext(c, "/api/v1/admin/broadcasts/batch", 5*time.Minute), &req, metadata)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Broadcast validation failed", businessErrorCode(err), err.Error())
		}
		if businessflow.IsBroadcastTickBusy(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Tick already in progress", "BROADCAST_TICK_BUSY", nil)
		}
		log.Println("Broadcast batch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Broadcast batch failed", "BROADCAST_BATCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Batch processed", result)
}

// PreviewAudience resolves an audience selector and reports its size
func (h *BroadcastHandler) PreviewAudience(c fiber.Ctx) error {
	var req dto.AudiencePreviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.flow.PreviewAudience(h.createRequestContext(c, "/api/v1/admin/broadcasts/audience/preview", 30*time.Second), &req)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Audience validation failed", businessErrorCode(err), err.Error())
		}
		log.Println("Audience preview failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Audience preview failed", "AUDIENCE_PREVIEW_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Audience resolved", result)
}

func (h *BroadcastHandler) createRequestContext(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	return createRequestContextWithTimeout(c, endpoint, timeout)
}

// businessErrorCode surfaces the BusinessError code when available
func businessErrorCode(err error) string {
	if be, ok := err.(*businessflow.BusinessError); ok {
		return be.Code
	}
	return "VALIDATION_ERROR"
}
