package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// Repository exposes the storage operations checkout orchestrates. Methods
// taking a *gorm.DB run inside the caller's transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a checkout repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindListForCheckout loads the list with items, catalog entries, selections
// and the selected offers.
func (r *Repository) FindListForCheckout(ctx context.Context, tx *gorm.DB, listID uuid.UUID) (*models.ShoppingList, error) {
	if tx == nil {
		tx = r.db
	}
	var list models.ShoppingList
	err := tx.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.CatalogItem").
		Preload("Items.Selection").
		Preload("Items.Selection.VendorOffer").
		Preload("Items.Selection.VendorOffer.Vendor").
		First(&list, "id = ?", listID).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateOrder persists the order and its items.
func (r *Repository) CreateOrder(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

// CompleteList flips the list from draft to completed and reports whether the
// transition happened. A false return means another checkout won the race.
func (r *Repository) CompleteList(ctx context.Context, tx *gorm.DB, listID uuid.UUID) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.ShoppingList{}).
		Where("id = ? AND status = ?", listID, enums.ShoppingListStatusDraft).
		UpdateColumn("status", enums.ShoppingListStatusCompleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
