package dto

import "github.com/arthive/illustration-platform/internal/domain"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the uniform envelope for all auth endpoints. Downstream
// gates parse this shape; success/message/user are a cross-service contract.
type AuthResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Token   string           `json:"token,omitempty"`
	User    *domain.Identity `json:"user,omitempty"`
}
