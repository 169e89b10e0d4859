package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// OrderItem snapshots one purchased line at checkout time. Product name,
// origin and prices are copied from the offer so later catalog or offer edits
// cannot rewrite order history.
type OrderItem struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	VendorID      uuid.UUID             `gorm:"column:vendor_id;type:uuid;not null;index"`
	VendorOfferID uuid.UUID             `gorm:"column:vendor_offer_id;type:uuid;not null"`
	CatalogItemID uuid.UUID             `gorm:"column:catalog_item_id;type:uuid;not null"`
	ProductName   string                `gorm:"column:product_name;type:text;not null"`
	Origin        string                `gorm:"column:origin;type:text;not null"`
	Quantity      float64               `gorm:"column:quantity;type:numeric(12,3);not null"`
	Unit          enums.Unit            `gorm:"column:unit;type:text;not null"`
	UnitPrice     float64               `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice    float64               `gorm:"column:total_price;type:numeric(12,2);not null"`
	Status        enums.OrderItemStatus `gorm:"column:status;type:text;not null;default:pending"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
