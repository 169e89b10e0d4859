package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
)

// Repository exposes catalog item persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a catalog item.
func (r *Repository) Create(ctx context.Context, item *models.CatalogItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID loads a catalog item by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// NameExists reports whether another item already uses the name.
func (r *Repository) NameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.CatalogItem{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns active catalog items, optionally filtered by category and a
// case-insensitive name search, ordered by name.
func (r *Repository) List(ctx context.Context, input ListItemsInput) ([]models.CatalogItem, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if input.Category != nil {
		q = q.Where("category = ?", *input.Category)
	}
	if input.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(input.Search)+"%")
	}

	var items []models.CatalogItem
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save persists mutations on an already-loaded item.
func (r *Repository) Save(ctx context.Context, item *models.CatalogItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes a catalog item.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CatalogItem{}, "id = ?", id).Error
}

// CountOffers reports how many vendor offers reference the item.
func (r *Repository) CountOffers(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VendorOffer{}).
		Where("catalog_item_id = ?", itemID).
		Count(&count).Error
	return count, err
}
