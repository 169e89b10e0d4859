package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       *string    `json:"phone,omitempty"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	VendorStatus           *enums.VendorStatus           `json:"vendor_status,omitempty"`
	BusinessName           *string                       `json:"business_name,omitempty"`
	NotificationPreference *enums.NotificationPreference `json:"notification_preference,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	Role         enums.Role

	VendorStatus           *enums.VendorStatus
	BusinessName           *string
	NotificationPreference *enums.NotificationPreference
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                     u.ID,
		Email:                  u.Email,
		Name:                   u.Name,
		Phone:                  u.Phone,
		Role:                   u.Role,
		IsActive:               u.IsActive,
		LastLoginAt:            u.LastLoginAt,
		VendorStatus:           u.VendorStatus,
		BusinessName:           u.BusinessName,
		NotificationPreference: u.NotificationPreference,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:                     uuid.New(),
		Email:                  c.Email,
		PasswordHash:           c.PasswordHash,
		Name:                   c.Name,
		Phone:                  c.Phone,
		Role:                   c.Role,
		IsActive:               true,
		VendorStatus:           c.VendorStatus,
		BusinessName:           c.BusinessName,
		NotificationPreference: c.NotificationPreference,
	}
}
