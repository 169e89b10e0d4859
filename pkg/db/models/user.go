package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// User represents the canonical identity entity for buyers, vendors and admins.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Name         string     `gorm:"column:name;not null"`
	Phone        *string    `gorm:"column:phone"`
	Role         enums.Role `gorm:"column:role;type:text;not null"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`

	// Vendor-only columns; zero-valued for buyers and admins.
	VendorStatus           *enums.VendorStatus           `gorm:"column:vendor_status;type:text"`
	BusinessName           *string                       `gorm:"column:business_name"`
	NotificationPreference *enums.NotificationPreference `gorm:"column:notification_preference;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsApprovedVendor reports whether the user is a vendor cleared to sell.
func (u User) IsApprovedVendor() bool {
	return u.Role == enums.RoleVendor &&
		u.VendorStatus != nil &&
		*u.VendorStatus == enums.VendorStatusApproved
}
