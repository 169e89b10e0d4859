package shopping

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// ListDTO is the transport shape of a shopping list with its items.
type ListDTO struct {
	ID        uuid.UUID                `json:"id"`
	BuyerID   uuid.UUID                `json:"buyer_id"`
	Name      string                   `json:"name"`
	Status    enums.ShoppingListStatus `json:"status"`
	Items     []ItemDTO                `json:"items"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// ItemDTO is one requested produce line, with its selection when present.
type ItemDTO struct {
	ID              uuid.UUID     `json:"id"`
	ShoppingListID  uuid.UUID     `json:"shopping_list_id"`
	CatalogItemID   uuid.UUID     `json:"catalog_item_id"`
	ProductName     string        `json:"product_name,omitempty"`
	Quantity        float64       `json:"quantity"`
	Unit            enums.Unit    `json:"unit"`
	PreferredOrigin *string       `json:"preferred_origin,omitempty"`
	Selection       *SelectionDTO `json:"selection,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// SelectionDTO summarizes the offer pinned to an item.
type SelectionDTO struct {
	ID            uuid.UUID `json:"id"`
	VendorOfferID uuid.UUID `json:"vendor_offer_id"`
	TotalPrice    float64   `json:"total_price"`
}

// CreateListRequest names a new draft list.
type CreateListRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateListRequest renames a draft list.
type UpdateListRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddItemRequest appends a produce need to a draft list.
type AddItemRequest struct {
	CatalogItemID   uuid.UUID `json:"catalog_item_id" validate:"required"`
	Quantity        float64   `json:"quantity" validate:"required,gt=0"`
	Unit            string    `json:"unit" validate:"required,oneof=kg gram"`
	PreferredOrigin *string   `json:"preferred_origin,omitempty"`
}

// UpdateItemRequest carries optional mutations for a list item.
type UpdateItemRequest struct {
	Quantity        *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit            *string  `json:"unit,omitempty" validate:"omitempty,oneof=kg gram"`
	PreferredOrigin *string  `json:"preferred_origin,omitempty"`
}

func listFromModel(list *models.ShoppingList) *ListDTO {
	if list == nil {
		return nil
	}
	dto := &ListDTO{
		ID:        list.ID,
		BuyerID:   list.BuyerID,
		Name:      list.Name,
		Status:    list.Status,
		Items:     make([]ItemDTO, 0, len(list.Items)),
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
	for i := range list.Items {
		dto.Items = append(dto.Items, *itemFromModel(&list.Items[i]))
	}
	return dto
}

func itemFromModel(item *models.ShoppingListItem) *ItemDTO {
	if item == nil {
		return nil
	}
	dto := &ItemDTO{
		ID:              item.ID,
		ShoppingListID:  item.ShoppingListID,
		CatalogItemID:   item.CatalogItemID,
		Quantity:        item.Quantity,
		Unit:            item.Unit,
		PreferredOrigin: item.PreferredOrigin,
		CreatedAt:       item.CreatedAt,
	}
	if item.CatalogItem != nil {
		dto.ProductName = item.CatalogItem.Name
	}
	if item.Selection != nil {
		dto.Selection = &SelectionDTO{
			ID:            item.Selection.ID,
			VendorOfferID: item.Selection.VendorOfferID,
			TotalPrice:    item.Selection.TotalPrice,
		}
	}
	return dto
}
