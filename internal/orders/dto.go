package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// OrderDTO is the transport shape of one order with its lines.
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

// OrderItemDTO is one frozen order line with its fulfillment status.
type OrderItemDTO struct {
	ID          uuid.UUID             `json:"id"`
	OrderID     uuid.UUID             `json:"order_id"`
	VendorID    uuid.UUID             `json:"vendor_id"`
	ProductName string                `json:"product_name"`
	Origin      string                `json:"origin"`
	Quantity    float64               `json:"quantity"`
	Unit        enums.Unit            `json:"unit"`
	UnitPrice   float64               `json:"unit_price"`
	TotalPrice  float64               `json:"total_price"`
	Status      enums.OrderItemStatus `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
}

// VendorItemDTO is an order line as the fulfilling vendor sees it, with the
// order's short id for notification cross-reference.
type VendorItemDTO struct {
	OrderItemDTO
	OrderShortID string `json:"order_short_id"`
}

// ListResult carries one page of a buyer's orders.
type ListResult struct {
	Orders []OrderDTO `json:"orders"`
	Total  int64      `json:"total"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
}

// CommissionSummaryDTO rolls platform commission up across all orders.
type CommissionSummaryDTO struct {
	OrderCount int64   `json:"order_count"`
	Subtotal   float64 `json:"subtotal"`
	Commission float64 `json:"commission"`
	GrandTotal float64 `json:"grand_total"`
}

// AdvanceItemRequest moves an order item's fulfillment status forward.
type AdvanceItemRequest struct {
	Status string `json:"status" validate:"required,oneof=preparing ready completed"`
}

func orderFromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:                 order.ID,
		ShortID:            order.ShortID(),
		BuyerID:            order.BuyerID,
		ShoppingListID:     order.ShoppingListID,
		Subtotal:           order.Subtotal,
		PlatformCommission: order.Commission,
		GrandTotal:         order.GrandTotal,
		Items:              make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:          order.CreatedAt,
	}
	for i := range order.Items {
		dto.Items = append(dto.Items, *itemFromModel(&order.Items[i]))
	}
	return dto
}

func itemFromModel(item *models.OrderItem) *OrderItemDTO {
	if item == nil {
		return nil
	}
	return &OrderItemDTO{
		ID:          item.ID,
		OrderID:     item.OrderID,
		VendorID:    item.VendorID,
		ProductName: item.ProductName,
		Origin:      item.Origin,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		UnitPrice:   item.UnitPrice,
		TotalPrice:  item.TotalPrice,
		Status:      item.Status,
		CreatedAt:   item.CreatedAt,
	}
}
