package shopping

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
)

// Repository exposes shopping list persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shopping repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateList inserts a shopping list.
func (r *Repository) CreateList(ctx context.Context, list *models.ShoppingList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// FindListByID loads a list with its items, their catalog entries and any
// selections.
func (r *Repository) FindListByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.CatalogItem").
		Preload("Items.Selection").
		First(&list, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByBuyer returns the buyer's lists, newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// SaveList persists mutations on an already-loaded list.
func (r *Repository) SaveList(ctx context.Context, list *models.ShoppingList) error {
	return r.db.WithContext(ctx).Omit("Items").Save(list).Error
}

// DeleteList removes a list with its items and their selections.
func (r *Repository) DeleteList(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("shopping_list_item_id IN (?)",
			tx.Model(&models.ShoppingListItem{}).Select("id").Where("shopping_list_id = ?", id),
		).Delete(&models.Selection{}).Error
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.ShoppingListItem{}, "shopping_list_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ShoppingList{}, "id = ?", id).Error
	})
}

// CreateItem inserts a list item.
func (r *Repository) CreateItem(ctx context.Context, item *models.ShoppingListItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindItemByID loads an item with its catalog entry and selection.
func (r *Repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.ShoppingListItem, error) {
	var item models.ShoppingListItem
	err := r.db.WithContext(ctx).
		Preload("CatalogItem").
		Preload("Selection").
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveItem persists mutations on an already-loaded item.
func (r *Repository) SaveItem(ctx context.Context, item *models.ShoppingListItem) error {
	return r.db.WithContext(ctx).Omit("CatalogItem", "Selection").Save(item).Error
}

// DeleteItem removes an item and its selection.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Selection{}, "shopping_list_item_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ShoppingListItem{}, "id = ?", id).Error
	})
}
