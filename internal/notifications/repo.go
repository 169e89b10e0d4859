package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
)

// Repository loads the order and vendor contact data the fan-out needs.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindOrderWithItems loads an order and its line items.
func (r *Repository) FindOrderWithItems(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindVendors returns the vendor users for the given ids, keyed by id.
func (r *Repository) FindVendors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.User{}, nil
	}

	var vendors []models.User
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.User, len(vendors))
	for _, vendor := range vendors {
		byID[vendor.ID] = vendor
	}
	return byID, nil
}
