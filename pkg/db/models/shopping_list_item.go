package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// ShoppingListItem is one requested produce line on a shopping list.
// PreferredOrigin is a soft hint surfaced to the buyer during matching; it
// never filters offers.
type ShoppingListItem struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShoppingListID  uuid.UUID  `gorm:"column:shopping_list_id;type:uuid;not null;index"`
	CatalogItemID   uuid.UUID  `gorm:"column:catalog_item_id;type:uuid;not null"`
	Quantity        float64    `gorm:"column:quantity;type:numeric(12,3);not null"`
	Unit            enums.Unit `gorm:"column:unit;type:text;not null"`
	PreferredOrigin *string    `gorm:"column:preferred_origin"`

	CatalogItem *CatalogItem `gorm:"foreignKey:CatalogItemID"`
	Selection   *Selection   `gorm:"foreignKey:ShoppingListItemID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
