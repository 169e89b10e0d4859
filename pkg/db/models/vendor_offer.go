package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// VendorOffer is a vendor's listing of produce for one catalog item.
// Quantity is the available stock in Unit terms; InitialQuantity records the
// stock at listing time for reporting. Price is the KWD price per one Unit.
type VendorOffer struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID        uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	CatalogItemID   uuid.UUID       `gorm:"column:catalog_item_id;type:uuid;not null;index"`
	Quantity        float64         `gorm:"column:quantity;type:numeric(12,3);not null"`
	InitialQuantity float64         `gorm:"column:initial_quantity;type:numeric(12,3);not null"`
	Unit            enums.Unit      `gorm:"column:unit;type:text;not null"`
	Price           float64         `gorm:"column:price;type:numeric(12,3);not null"`
	Origin          string          `gorm:"column:origin;type:text;not null"`
	ImageURL        *string         `gorm:"column:image_url"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	QualityReport   json.RawMessage `gorm:"column:quality_report;type:jsonb"`

	Vendor      *User        `gorm:"foreignKey:VendorID"`
	CatalogItem *CatalogItem `gorm:"foreignKey:CatalogItemID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
