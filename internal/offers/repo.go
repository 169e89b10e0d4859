package offers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
)

// Repository exposes vendor offer persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an offers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a vendor offer.
func (r *Repository) Create(ctx context.Context, offer *models.VendorOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

// FindByID loads an offer with its catalog item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VendorOffer, error) {
	var offer models.VendorOffer
	err := r.db.WithContext(ctx).
		Preload("CatalogItem").
		First(&offer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListByVendor returns a vendor's offers, newest first.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.VendorOffer, error) {
	var offers []models.VendorOffer
	err := r.db.WithContext(ctx).
		Preload("CatalogItem").
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// Save persists mutations on an already-loaded offer.
func (r *Repository) Save(ctx context.Context, offer *models.VendorOffer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

// Delete removes an offer and any selections referencing it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Selection{}, "vendor_offer_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.VendorOffer{}, "id = ?", id).Error
	})
}

// DeactivateSoldOutTx flips off active offers with no stock left. Used by the
// cron sweep as a backstop to checkout's own deactivation.
func (r *Repository) DeactivateSoldOutTx(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&models.VendorOffer{}).
		Where("is_active = ? AND quantity <= 0", true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// UpdateQualityReport stores the analysis blob on an offer.
func (r *Repository) UpdateQualityReport(ctx context.Context, id uuid.UUID, report []byte) error {
	return r.db.WithContext(ctx).
		Model(&models.VendorOffer{}).
		Where("id = ?", id).
		UpdateColumn("quality_report", report).Error
}
