// Package models contains domain entities and business models for the admin back-office
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Broadcast channels
const (
	BroadcastChannelEmail = "email"
	BroadcastChannelInApp = "in_app"
	BroadcastChannelBoth  = "both"
)

// BroadcastReceipt records one processed tick of a broadcast. The
// (broadcast_uuid, batch_offset) pair is the idempotency key: it is written
// before any delivery is attempted, so a repeated tick with the same key is
// answered from the receipt instead of re-delivering.
type BroadcastReceipt struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BroadcastUUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_broadcast_receipts_broadcast_offset,priority:1" json:"broadcast_uuid"`
	BatchOffset   int       `gorm:"not null;uniqueIndex:uk_broadcast_receipts_broadcast_offset,priority:2" json:"batch_offset"`
	BatchSize     int       `gorm:"not null" json:"batch_size"`
	Channel       string    `gorm:"size:10;not null" json:"channel"`

	RecipientIDs pq.Int64Array `gorm:"type:bigint[];not null;default:'{}'" json:"recipient_ids"`

	AudienceTotal int64 `gorm:"not null" json:"audience_total"`
	Created       int   `gorm:"not null;default:0" json:"created"`
	Failed        int   `gorm:"not null;default:0" json:"failed"`

	InAppCreated int `gorm:"not null;default:0" json:"in_app_created"`
	InAppFailed  int `gorm:"not null;default:0" json:"in_app_failed"`
	EmailSent    int `gorm:"not null;default:0" json:"email_sent"`
	EmailFailed  int `gorm:"not null;default:0" json:"email_failed"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_broadcast_receipts_created_at" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (BroadcastReceipt) TableName() string {
	return "broadcast_receipts"
}

// BroadcastReceiptFilter represents filter criteria for receipt queries
type BroadcastReceiptFilter struct {
	ID            *uint
	BroadcastUUID *uuid.UUID
	BatchOffset   *int
	Channel       *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func IsValidBroadcastChannel(channel string) bool {
	switch channel {
	case BroadcastChannelEmail, BroadcastChannelInApp, BroadcastChannelBoth:
		return true
	}
	return false
}
