// Package dto contains request and response structures for the API layer
package dto

import "time"

// AudienceFilterDTO carries the parameter for audience types that need one.
// Exactly one field is set depending on the audience type.
type AudienceFilterDTO struct {
	Country   string   `json:"country,omitempty" validate:"omitempty,min=2,max=60"`
	Specialty string   `json:"specialty,omitempty" validate:"omitempty,min=2,max=120"`
	Emails    []string `json:"emails,omitempty" validate:"omitempty,max=10000,dive,email"`
}

// AudienceDTO selects who a broadcast goes to
type AudienceDTO struct {
	Type   string             `json:"type" validate:"required,oneof=all active inactive by_country by_specialty by_email_list"`
	Filter *AudienceFilterDTO `json:"filter,omitempty"`
}

// BroadcastMessageDTO is the message content before rendering
type BroadcastMessageDTO struct {
	Title   string  `json:"title" validate:"required,min=1,max=255"`
	Body    string  `json:"body" validate:"required,min=1"`
	CTAText *string `json:"cta_text,omitempty" validate:"omitempty,max=100"`
	CTAURL  *string `json:"cta_url,omitempty" validate:"omitempty,url,max=500"`

	// ExpiresAt hides the in-app notification after this instant; nil means
	// the notification never expires. Ignored by the email channel.
	ExpiresAt *time.Time `json:"expires_at,omitempty" validate:"omitempty"`
}

// BroadcastBatchRequest is one client-driven tick of a broadcast
type BroadcastBatchRequest struct {
	BroadcastUUID string              `json:"broadcast_uuid" validate:"required,uuid4"`
	Audience      AudienceDTO         `json:"audience" validate:"required"`
	Message       BroadcastMessageDTO `json:"message" validate:"required"`
	Category      string              `json:"category" validate:"required,oneof=critical important normal promotional"`
	Channel       string              `json:"channel" validate:"required,oneof=email in_app both"`
	BatchSize     int                 `json:"batch_size" validate:"required,min=1,max=500"`
	Offset        int                 `json:"offset" validate:"min=0"`
}

// BroadcastBatchResponse reports the outcome of one tick
type BroadcastBatchResponse struct {
	BroadcastUUID string `json:"broadcast_uuid"`

	Created int `json:"created"`
	Failed  int `json:"failed"`

	InAppCreated int `json:"in_app_created"`
	InAppFailed  int `json:"in_app_failed"`
	EmailSent    int `json:"email_sent"`
	EmailFailed  int `json:"email_failed"`

	ProcessedSoFar     int64   `json:"processed_so_far"`
	Total              int64   `json:"total"`
	HasMore            bool    `json:"has_more"`
	NextOffset         int     `json:"next_offset"`
	ProgressPercentage float64 `json:"progress_percentage"`

	// Duplicate is true when this tick was already processed and the stored
	// outcome is being returned instead of re-delivering.
	Duplicate bool `json:"duplicate"`
}

// AudiencePreviewRequest resolves an audience without sending anything
type AudiencePreviewRequest struct {
	Audience AudienceDTO `json:"audience" validate:"required"`
}

// AudiencePreviewResponse reports the audience size and a small sample
type AudiencePreviewResponse struct {
	Total  int64     `json:"total"`
	Sample []UserDTO `json:"sample"`
}
