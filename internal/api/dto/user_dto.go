package dto

import (
	"time"

	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
)

// RegisterRequest payload for new accounts with nested profile data.
type RegisterRequest struct {
	Username        string      `json:"username" validate:"required,min=3,max=150"`
	Email           string      `json:"email" validate:"required,email"`
	Password        string      `json:"password" validate:"required,min=8"`
	PasswordConfirm string      `json:"password_confirm" validate:"required"`
	FirstName       string      `json:"first_name" validate:"required,max=200"`
	LastName        string      `json:"last_name" validate:"max=200"`
	Role            domain.Role `json:"role" validate:"omitempty,oneof=user agent admin"`
	Phone           string      `json:"phone" validate:"max=15"`
	Department      string      `json:"department" validate:"max=100"`
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm payload.
type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UpdateProfileRequest carries partial profile updates.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=200"`
	LastName   *string `json:"last_name" validate:"omitempty,max=200"`
	Phone      *string `json:"phone" validate:"omitempty,max=15"`
	Department *string `json:"department" validate:"omitempty,max=100"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse read model for accounts.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// ProfileResponse read model for profiles.
type ProfileResponse struct {
	UserID     string      `json:"user_id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Role       domain.Role `json:"role"`
	Phone      string      `json:"phone"`
	Department string      `json:"department"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
