package payloads

import (
	"time"

	"github.com/google/uuid"
)

// OrderCreatedEvent signals that a shopping list was checked out and an order
// was persisted. The notification worker fans this out to every vendor with
// at least one item on the order.
type OrderCreatedEvent struct {
	OrderID        uuid.UUID   `json:"order_id"`
	BuyerID        uuid.UUID   `json:"buyer_id"`
	ShoppingListID uuid.UUID   `json:"shopping_list_id"`
	VendorIDs      []uuid.UUID `json:"vendor_ids"`
	GrandTotal     float64     `json:"grand_total"`
	CreatedAt      time.Time   `json:"created_at"`
}
