package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether an account already uses the email.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// ListVendors returns all vendors, optionally narrowed to one review state,
// oldest first.
func (r *Repository) ListVendors(ctx context.Context, status *enums.VendorStatus) ([]models.User, error) {
	query := r.db.WithContext(ctx).Where("role = ?", enums.RoleVendor)
	if status != nil {
		query = query.Where("vendor_status = ?", *status)
	}

	var vendors []models.User
	if err := query.Order("created_at ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// ListVendorsByStatus returns vendors in the given review state, oldest first.
func (r *Repository) ListVendorsByStatus(ctx context.Context, status enums.VendorStatus) ([]models.User, error) {
	return r.ListVendors(ctx, &status)
}

// UpdateVendorStatus moves a vendor to the given review state.
func (r *Repository) UpdateVendorStatus(ctx context.Context, id uuid.UUID, status enums.VendorStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", id, enums.RoleVendor).
		UpdateColumn("vendor_status", status).Error
}
