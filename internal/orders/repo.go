package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByBuyer returns one page of the buyer's orders, newest first, plus the
// total count.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]models.Order, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("buyer_id = ?", buyerID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err = r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListAll returns one page of every order on the platform, newest first, plus
// the total count.
func (r *Repository) ListAll(ctx context.Context, offset, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CommissionTotals sums order counts and money columns platform-wide.
func (r *Repository) CommissionTotals(ctx context.Context) (*CommissionSummaryDTO, error) {
	var summary CommissionSummaryDTO
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS order_count, " +
			"COALESCE(SUM(subtotal), 0) AS subtotal, " +
			"COALESCE(SUM(commission), 0) AS commission, " +
			"COALESCE(SUM(grand_total), 0) AS grand_total").
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListItemsByVendor returns the vendor's order lines, newest first.
func (r *Repository) ListItemsByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemByID loads one order item.
func (r *Repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemStatus persists a fulfillment transition.
func (r *Repository) UpdateItemStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
