// Package dto contains request and response structures for the API layer
package dto

// AdminLoginRequest authenticates a back-office admin
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// AdminDTO is the admin representation returned to clients
type AdminDTO struct {
	ID          uint    `json:"id"`
	UUID        string  `json:"uuid"`
	Username    string  `json:"username"`
	Role        string  `json:"role"`
	IsActive    *bool   `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
}

// AdminSessionDTO carries issued tokens
type AdminSessionDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// AdminLoginResponse is returned on successful login
type AdminLoginResponse struct {
	Admin   AdminDTO        `json:"admin"`
	Session AdminSessionDTO `json:"session"`
}

// AdminRefreshTokenRequest exchanges a refresh token for new tokens
type AdminRefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
