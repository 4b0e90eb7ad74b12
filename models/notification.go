// Package models contains domain entities and business models for the admin back-office
package models

import (
	"time"
)

// Broadcast categories. They mirror the severity levels the admin UI offers.
const (
	NotificationCategoryCritical    = "critical"
	NotificationCategoryImportant   = "important"
	NotificationCategoryNormal      = "normal"
	NotificationCategoryPromotional = "promotional"
)

// Notification types distinguish broadcast rows from notifications created by
// other parts of the platform.
const (
	NotificationTypeBroadcast = "broadcast"
	NotificationTypeSystem    = "system"
)

type Notification struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"not null;index:idx_notifications_user_id" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	Type     string `gorm:"size:20;not null;default:broadcast" json:"type"`
	Category string `gorm:"size:20;not null;index:idx_notifications_category" json:"category"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Message  string `gorm:"type:text;not null" json:"message"`

	CTAText *string `gorm:"size:100" json:"cta_text,omitempty"`
	CTAURL  *string `gorm:"size:500" json:"cta_url,omitempty"`

	IsRead    bool       `gorm:"not null;default:false;index:idx_notifications_is_read" json:"is_read"`
	ExpiresAt *time.Time `gorm:"index:idx_notifications_expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_notifications_created_at" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationFilter represents filter criteria for notification queries
type NotificationFilter struct {
	ID            *uint
	UserID        *uint
	Type          *string
	Category      *string
	IsRead        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func IsValidNotificationCategory(category string) bool {
	switch category {
	case NotificationCategoryCritical, NotificationCategoryImportant,
		NotificationCategoryNormal, NotificationCategoryPromotional:
		return true
	}
	return false
}
