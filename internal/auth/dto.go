package auth

import (
	"github.com/aldousari/sooqfresh-backend/internal/users"
)

// RegisterRequest captures a new buyer or vendor signup.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role" validate:"required,oneof=buyer vendor"`

	// Vendor-only fields.
	BusinessName           string `json:"business_name,omitempty"`
	NotificationPreference string `json:"notification_preference,omitempty" validate:"omitempty,oneof=sms whatsapp both"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest trades an expired access token plus its refresh token for a
// fresh pair.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse contains the tokens and user produced by a successful
// registration, login, or refresh. RefreshToken is empty when session
// storage is not configured.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	User         *users.UserDTO `json:"user"`
}
