// Package dto contains request and response structures for the API layer
package dto

// UserDTO is the platform user representation returned to the back-office
type UserDTO struct {
	ID                 uint    `json:"id"`
	UUID               string  `json:"uuid"`
	Email              string  `json:"email"`
	FullName           *string `json:"full_name,omitempty"`
	Country            *string `json:"country,omitempty"`
	Specialty          *string `json:"specialty,omitempty"`
	SubscriptionStatus string  `json:"subscription_status"`
	IsActive           *bool   `json:"is_active"`
	CreatedAt          string  `json:"created_at"`
	LastLoginAt        *string `json:"last_login_at,omitempty"`
}

// ListUsersRequest filters and paginates the back-office user list
type ListUsersRequest struct {
	Country            string `query:"country" validate:"omitempty,min=2,max=60"`
	Specialty          string `query:"specialty" validate:"omitempty,min=2,max=120"`
	SubscriptionStatus string `query:"subscription_status" validate:"omitempty,oneof=active trialing canceled expired suspended"`
	Page               int    `query:"page" validate:"omitempty,min=1"`
	PageSize           int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListUsersResponse is a paginated user listing
type ListUsersResponse struct {
	Users    []UserDTO `json:"users"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
