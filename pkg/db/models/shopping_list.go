package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// ShoppingList groups a buyer's requested produce ahead of checkout.
type ShoppingList struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID   uuid.UUID                `gorm:"column:buyer_id;type:uuid;not null;index"`
	Name      string                   `gorm:"column:name;type:text;not null"`
	Status    enums.ShoppingListStatus `gorm:"column:status;type:text;not null;default:draft"`
	Items     []ShoppingListItem       `gorm:"foreignKey:ShoppingListID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
