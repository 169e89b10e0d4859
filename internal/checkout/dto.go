package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// PreviewDTO is the checkout summary shown before confirmation. Amounts are
// rounded to 2 decimal places for display.
type PreviewDTO struct {
	ShoppingListID     uuid.UUID `json:"shopping_list_id"`
	Lines              []LineDTO `json:"lines"`
	Subtotal           float64   `json:"subtotal"`
	PlatformCommission float64   `json:"platform_commission"`
	GrandTotal         float64   `json:"grand_total"`
}

// LineDTO is one priced checkout line.
type LineDTO struct {
	ItemID        uuid.UUID  `json:"item_id"`
	VendorOfferID uuid.UUID  `json:"vendor_offer_id"`
	VendorID      uuid.UUID  `json:"vendor_id"`
	ProductName   string     `json:"product_name"`
	Origin        string     `json:"origin"`
	Quantity      float64    `json:"quantity"`
	Unit          enums.Unit `json:"unit"`
	UnitPrice     float64    `json:"unit_price"`
	TotalPrice    float64    `json:"total_price"`
}

// OrderDTO is the persisted order returned by checkout confirmation.
type OrderDTO struct {
	ID                 uuid.UUID      `json:"id"`
	ShortID            string         `json:"short_id"`
	BuyerID            uuid.UUID      `json:"buyer_id"`
	ShoppingListID     uuid.UUID      `json:"shopping_list_id"`
	Subtotal           float64        `json:"subtotal"`
	PlatformCommission float64        `json:"platform_commission"`
	GrandTotal         float64        `json:"grand_total"`
	Items              []OrderItemDTO `json:"items"`
	CreatedAt          time.Time      `json:"created_at"`
}

// OrderItemDTO is one frozen order line.
type OrderItemDTO struct {
	ID          uuid.UUID             `json:"id"`
	VendorID    uuid.UUID             `json:"vendor_id"`
	ProductName string                `json:"product_name"`
	Origin      string                `json:"origin"`
	Quantity    float64               `json:"quantity"`
	Unit        enums.Unit            `json:"unit"`
	UnitPrice   float64               `json:"unit_price"`
	TotalPrice  float64               `json:"total_price"`
	Status      enums.OrderItemStatus `json:"status"`
}
