// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/dto"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToAdminDTO converts an admin model for authentication responses
func ToAdminDTO(admin models.Admin) dto.AdminDTO {
	d := dto.AdminDTO{
		ID:        admin.ID,
		UUID:      admin.UUID.String(),
		Username:  admin.Username,
		Role:      admin.Role,
		IsActive:  admin.IsActive,
		CreatedAt: admin.CreatedAt.Format(time.RFC3339),
	}
	if admin.LastLoginAt != nil {
		s := admin.LastLoginAt.Format(time.RFC3339)
		d.LastLoginAt = &s
	}
	return d
}

// ToUserDTO converts a user model for back-office responses
func ToUserDTO(user models.User) dto.UserDTO {
	d := dto.UserDTO{
		ID:                 user.ID,
		UUID:               user.UUID.String(),
		Email:              user.Email,
		FullName:           user.FullName,
		Country:            user.Country,
		Specialty:          user.Specialty,
		SubscriptionStatus: user.SubscriptionStatus,
		IsActive:           user.IsActive,
		CreatedAt:          user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		s := user.LastLoginAt.Format(time.RFC3339)
		d.LastLoginAt = &s
	}
	return d
}
