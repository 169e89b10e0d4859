package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is the immutable record produced by checking out a shopping list.
// Amounts are stored already rounded to 2 decimal places.
type Order struct {
	ID             uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID        uuid.UUID   `gorm:"column:buyer_id;type:uuid;not null;index"`
	ShoppingListID uuid.UUID   `gorm:"column:shopping_list_id;type:uuid;not null;index"`
	Subtotal       float64     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Commission     float64     `gorm:"column:commission;type:numeric(12,2);not null"`
	GrandTotal     float64     `gorm:"column:grand_total;type:numeric(12,2);not null"`
	Items          []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time   `gorm:"column:created_at;autoCreateTime"`
}

// ShortID returns the first 8 characters of the order id, used in vendor
// notifications.
func (o Order) ShortID() string {
	s := o.ID.String()
	if len(s) < 8 {
		return s
	}
	return s[:8]
}
