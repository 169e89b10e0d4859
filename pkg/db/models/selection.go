package models

import (
	"time"

	"github.com/google/uuid"
)

// Selection pins one vendor offer to a shopping list item. The unique index
// on ShoppingListItemID enforces at most one selection per item; re-selecting
// replaces the row.
type Selection struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShoppingListItemID uuid.UUID `gorm:"column:shopping_list_item_id;type:uuid;not null;uniqueIndex"`
	VendorOfferID      uuid.UUID `gorm:"column:vendor_offer_id;type:uuid;not null"`
	TotalPrice         float64   `gorm:"column:total_price;type:numeric(12,3);not null"`

	VendorOffer *VendorOffer `gorm:"foreignKey:VendorOfferID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
