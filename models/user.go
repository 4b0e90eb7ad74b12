// Package models contains domain entities and business models for the admin back-office
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Subscription status values as stored on the users table. Comparisons are
// case-insensitive; the canonical lowercase forms are listed here.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusTrialing  = "trialing"
	SubscriptionStatusCanceled  = "canceled"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusSuspended = "suspended"
)

// ActiveSubscriptionStatuses are the statuses the broadcast audience type
// "active" matches; InactiveSubscriptionStatuses those of "inactive".
var (
	ActiveSubscriptionStatuses   = []string{SubscriptionStatusActive, SubscriptionStatusTrialing}
	InactiveSubscriptionStatuses = []string{SubscriptionStatusCanceled, SubscriptionStatusExpired, SubscriptionStatusSuspended}
)

type User struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`

	Email    string  `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	FullName *string `gorm:"size:255" json:"full_name,omitempty"`

	// Professional profile attributes used for audience targeting
	Country   *string `gorm:"size:60;index:idx_users_country" json:"country,omitempty"`
	Specialty *string `gorm:"size:120;index:idx_users_specialty" json:"specialty,omitempty"`

	SubscriptionStatus string `gorm:"size:20;not null;default:expired;index:idx_users_subscription_status" json:"subscription_status"`

	IsActive *bool `gorm:"default:true;index:idx_users_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Relations
	Notifications []Notification `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName returns the user's full name, falling back to the local part
// of the email address when no name is on file.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// UserFilter represents filter criteria for user queries. The same filter is
// applied to count and page queries so the two can never drift apart.
type UserFilter struct {
	ID                   *uint
	UUID                 *uuid.UUID
	Email                *string
	Country              *string
	Specialty            *string
	SubscriptionStatusIn []string
	EmailIn              []string
	IsActive             *bool
	CreatedAfter         *time.Time
	CreatedBefore        *time.Time
}
