package dto

import "time"

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse returns the signed token and the operator's grants.
type LoginResponse struct {
	Token       string              `json:"token"`
	ExpiresAt   time.Time           `json:"expires_at"`
	FullName    string              `json:"fullName"`
	Permissions map[string][]string `json:"permissions"`
}
