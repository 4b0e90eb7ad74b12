// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/dto"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/repository"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// BroadcastFlow represents the broadcast pipeline used by handlers
type BroadcastFlow interface {
	ProcessBatch(ctx context.Context, req *dto.BroadcastBatchRequest, metadata *ClientMetadata) (*dto.BroadcastBatchResponse, error)
	PreviewAudience(ctx context.Context, req *dto.AudiencePreviewRequest) (*dto.AudiencePreviewResponse, error)
}

// BroadcastFlowImpl orchestrates one client-driven tick of a broadcast:
// resolve audience, fetch the page at the cursor, render and deliver, and
// report the cursor for the next tick.
type BroadcastFlowImpl struct {
	userRepo    repository.UserRepository
	receiptRepo repository.BroadcastReceiptRepository
	auditRepo   repository.AuditLogRepository
	inApp       *InAppDeliverer
	email       *EmailDeliverer
	rc          *redis.Client
}

// NewBroadcastFlow creates a new broadcast flow. rc may be nil; the Redis tick
// lock is then skipped and idempotency relies on the receipt unique key alone.
func NewBroadcastFlow(
	userRepo repository.UserRepository,
	receiptRepo repository.BroadcastReceiptRepository,
	auditRepo repository.AuditLogRepository,
	inApp *InAppDeliverer,
	email *EmailDeliverer,
	rc *redis.Client,
) BroadcastFlow {
	return &BroadcastFlowImpl{
		userRepo:    userRepo,
		receiptRepo: receiptRepo,
		auditRepo:   auditRepo,
		inApp:       inApp,
		email:       email,
		rc:          rc,
	}
}

func (bf *BroadcastFlowImpl) ProcessBatch(ctx context.Context, req *dto.BroadcastBatchRequest, metadata *ClientMetadata) (*dto.BroadcastBatchResponse, error) {
	broadcastUUID, filter, err := bf.validateBatchRequest(req)
	if err != nil {
		return nil, err
	}

	// Guard concurrent duplicate ticks inside the receipt-write window
	if bf.rc != nil {
		lockKey := fmt.Sprintf("%s%s:%d", utils.BroadcastLockKeyPrefix, broadcastUUID, req.Offset)
		ok, lockErr := bf.rc.SetNX(ctx, lockKey, "1", utils.BroadcastLockTTL).Result()
		if lockErr == nil && !ok {
			return nil, NewBusinessError("BROADCAST_TICK_BUSY", "Another worker is processing this tick", ErrBroadcastTickBusy)
		}
		if lockErr == nil {
			defer func() {
				_ = bf.rc.Del(context.Background(), lockKey).Err()
			}()
		}
	}

	// A tick already recorded for this (broadcast, offset) is answered from
	// the receipt without re-delivering.
	existing, err := bf.receiptRepo.ByBroadcastAndOffset(ctx, broadcastUUID, req.Offset)
	if err != nil {
		return nil, NewBusinessError("RECEIPT_LOOKUP_FAILED", "Failed to check for a previous tick", err)
	}
	if existing != nil {
		bf.logBroadcastTick(ctx, models.AuditActionBroadcastBatchRepeated,
			fmt.Sprintf("broadcast %s offset %d already processed, returning recorded outcome", req.BroadcastUUID, req.Offset),
			true, nil, metadata, existing)
		return receiptToResponse(existing, true), nil
	}

	total, err := bf.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_RESOLUTION_FAILED", "Failed to resolve audience", err)
	}

	resp := &dto.BroadcastBatchResponse{
		BroadcastUUID: req.BroadcastUUID,
		Total:         total,
		NextOffset:    req.Offset,
	}

	if total == 0 {
		resp.HasMore = false
		resp.ProgressPercentage = 100
		return resp, nil
	}

	page, err := bf.userRepo.Page(ctx, filter, req.BatchSize, req.Offset)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_RESOLUTION_FAILED", "Failed to fetch audience page", err)
	}

	if len(page) == 0 {
		// The audience shrank since the last tick; the cursor ran past the end.
		resp.ProcessedSoFar = int64(req.Offset)
		resp.HasMore = false
		resp.ProgressPercentage = 100
		return resp, nil
	}

	recipientIDs := make(pq.Int64Array, 0, len(page))
	for _, user := range page {
		recipientIDs = append(recipientIDs, int64(user.ID))
	}

	// Record the receipt before any delivery so a crashed or repeated tick is
	// detected instead of re-delivered.
	receipt := &models.BroadcastReceipt{
		BroadcastUUID: broadcastUUID,
		BatchOffset:   req.Offset,
		BatchSize:     req.BatchSize,
		Channel:       req.Channel,
		RecipientIDs:  recipientIDs,
		AudienceTotal: total,
	}
	if err := bf.receiptRepo.Save(ctx, receipt); err != nil {
		// A concurrent tick may have won the unique key; return its outcome.
		winner, lookupErr := bf.receiptRepo.ByBroadcastAndOffset(ctx, broadcastUUID, req.Offset)
		if lookupErr == nil && winner != nil {
			return receiptToResponse(winner, true), nil
		}
		return nil, NewBusinessError("RECEIPT_WRITE_FAILED", "Failed to record broadcast tick", err)
	}

	content := &BroadcastContent{
		Title:     req.Message.Title,
		Body:      req.Message.Body,
		CTAText:   req.Message.CTAText,
		CTAURL:    req.Message.CTAURL,
		Category:  req.Category,
		ExpiresAt: req.Message.ExpiresAt,
	}

	if req.Channel == models.BroadcastChannelInApp || req.Channel == models.BroadcastChannelBoth {
		outcome := bf.inApp.Deliver(ctx, content, page)
		resp.InAppCreated = outcome.Created
		resp.InAppFailed = outcome.Failed
	}
	if req.Channel == models.BroadcastChannelEmail || req.Channel == models.BroadcastChannelBoth {
		outcome := bf.email.Deliver(ctx, content, page)
		resp.EmailSent = outcome.Created
		resp.EmailFailed = outcome.Failed
	}

	resp.Created = resp.InAppCreated + resp.EmailSent
	resp.Failed = resp.InAppFailed + resp.EmailFailed

	resp.ProcessedSoFar = int64(req.Offset + len(page))
	resp.HasMore = resp.ProcessedSoFar < total
	if resp.HasMore {
		resp.NextOffset = req.Offset + req.BatchSize
	}
	resp.ProgressPercentage = math.Round(float64(resp.ProcessedSoFar) / float64(total) * 100)

	receipt.Created = resp.Created
	receipt.Failed = resp.Failed
	receipt.InAppCreated = resp.InAppCreated
	receipt.InAppFailed = resp.InAppFailed
	receipt.EmailSent = resp.EmailSent
	receipt.EmailFailed = resp.EmailFailed
	receipt.CompletedAt = utils.UTCNowPtr()
	if err := bf.receiptRepo.Update(ctx, receipt); err != nil {
		// The deliveries happened; a stale receipt outcome is preferable to a
		// failed tick, so log via audit and carry on.
		bf.logBroadcastTick(ctx, models.AuditActionBroadcastBatchFailed, "failed to finalize receipt", false, utils.ToPtr(err.Error()), metadata, receipt)
		return resp, nil
	}

	bf.logBroadcastTick(ctx, models.AuditActionBroadcastBatchSent,
		fmt.Sprintf("broadcast %s offset %d delivered to %d recipients", req.BroadcastUUID, req.Offset, len(page)),
		true, nil, metadata, receipt)

	return resp, nil
}

func (bf *BroadcastFlowImpl) PreviewAudience(ctx context.Context, req *dto.AudiencePreviewRequest) (*dto.AudiencePreviewResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_AUDIENCE", "Audience selector is required", ErrInvalidAudienceType)
	}

	filter, err := BuildAudienceFilter(&req.Audience)
	if err != nil {
		return nil, err
	}

	total, err := bf.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_RESOLUTION_FAILED", "Failed to resolve audience", err)
	}

	resp := &dto.AudiencePreviewResponse{Total: total, Sample: []dto.UserDTO{}}
	if total == 0 {
		return resp, nil
	}

	sample, err := bf.userRepo.Page(ctx, filter, 5, 0)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_RESOLUTION_FAILED", "Failed to fetch audience sample", err)
	}
	for _, user := range sample {
		resp.Sample = append(resp.Sample, ToUserDTO(*user))
	}
	return resp, nil
}

// validateBatchRequest enforces every invariant before any data-store access
func (bf *BroadcastFlowImpl) validateBatchRequest(req *dto.BroadcastBatchRequest) (uuid.UUID, models.UserFilter, error) {
	var filter models.UserFilter

	if req == nil {
		return uuid.Nil, filter, NewBusinessError("INVALID_REQUEST", "Request body is required", ErrInvalidAudienceType)
	}
	if req.BatchSize < 1 || req.BatchSize > utils.MaxBroadcastBatchSize {
		return uuid.Nil, filter, NewBusinessErrorf("INVALID_BATCH_SIZE", "Batch size must be between 1 and %d", ErrInvalidBatchSize, utils.MaxBroadcastBatchSize)
	}
	if req.Offset < 0 {
		return uuid.Nil, filter, NewBusinessError("INVALID_OFFSET", "Offset must not be negative", ErrInvalidOffset)
	}
	if !models.IsValidNotificationCategory(req.Category) {
		return uuid.Nil, filter, NewBusinessErrorf("INVALID_CATEGORY", "Unknown category %q", ErrInvalidCategory, req.Category)
	}
	if !models.IsValidBroadcastChannel(req.Channel) {
		return uuid.Nil, filter, NewBusinessErrorf("INVALID_CHANNEL", "Unknown channel %q", ErrInvalidChannel, req.Channel)
	}
	if req.Message.Title == "" {
		return uuid.Nil, filter, NewBusinessError("MESSAGE_TITLE_REQUIRED", "Message title is required", ErrMessageTitleRequired)
	}
	if req.Message.Body == "" {
		return uuid.Nil, filter, NewBusinessError("MESSAGE_BODY_REQUIRED", "Message body is required", ErrMessageBodyRequired)
	}

	broadcastUUID, err := uuid.Parse(req.BroadcastUUID)
	if err != nil {
		return uuid.Nil, filter, NewBusinessError("INVALID_BROADCAST_UUID", "Broadcast UUID is malformed", ErrInvalidBroadcastUUID)
	}

	filter, err = BuildAudienceFilter(&req.Audience)
	if err != nil {
		return uuid.Nil, filter, err
	}

	return broadcastUUID, filter, nil
}

// receiptToResponse rebuilds a tick response from a stored receipt
func receiptToResponse(r *models.BroadcastReceipt, duplicate bool) *dto.BroadcastBatchResponse {
	processed := int64(r.BatchOffset + len(r.RecipientIDs))
	resp := &dto.BroadcastBatchResponse{
		BroadcastUUID:  r.BroadcastUUID.String(),
		Created:        r.Created,
		Failed:         r.Failed,
		InAppCreated:   r.InAppCreated,
		InAppFailed:    r.InAppFailed,
		EmailSent:      r.EmailSent,
		EmailFailed:    r.EmailFailed,
		ProcessedSoFar: processed,
		Total:          r.AudienceTotal,
		NextOffset:     r.BatchOffset,
		Duplicate:      duplicate,
	}
	if r.AudienceTotal > 0 {
		resp.HasMore = processed < r.AudienceTotal
		resp.ProgressPercentage = math.Round(float64(processed) / float64(r.AudienceTotal) * 100)
	} else {
		resp.ProgressPercentage = 100
	}
	if resp.HasMore {
		resp.NextOffset = r.BatchOffset + r.BatchSize
	}
	return resp
}

// logBroadcastTick writes a best-effort audit entry; failures are swallowed
func (bf *BroadcastFlowImpl) logBroadcastTick(ctx context.Context, action, description string, success bool, errMsg *string, metadata *ClientMetadata, receipt *models.BroadcastReceipt) {
	if bf.auditRepo == nil {
		return
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

	if adminID, ok := ctx.Value(utils.AdminIDKey).(uint); ok {
		audit.AdminID = &adminID
	}
	if requestID, ok := ctx.Value(utils.RequestIDKey).(string); ok && requestID != "" {
		audit.RequestID = &requestID
	}
	if receipt != nil {
		if meta, err := json.Marshal(map[string]any{
			"broadcast_uuid": receipt.BroadcastUUID.String(),
			"batch_offset":   receipt.BatchOffset,
			"batch_size":     receipt.BatchSize,
			"channel":        receipt.Channel,
			"created":        receipt.Created,
			"failed":         receipt.Failed,
		}); err == nil {
			audit.Metadata = meta
		}
	}

	_ = bf.auditRepo.Save(ctx, audit)
}
