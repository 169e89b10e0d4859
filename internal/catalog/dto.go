package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// ItemDTO is the transport shape of one catalog entry.
type ItemDTO struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Category  enums.ProduceCategory `json:"category"`
	ImageURL  *string               `json:"image_url,omitempty"`
	IsActive  bool                  `json:"is_active"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// CreateItemRequest is the admin payload to add a catalog entry.
type CreateItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category" validate:"required,oneof=fruit vegetable"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateItemRequest carries optional mutations for a catalog entry.
type UpdateItemRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty" validate:"omitempty,oneof=fruit vegetable"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ListItemsInput filters the public catalog listing.
type ListItemsInput struct {
	Category *enums.ProduceCategory
	Search   string
}

func fromModel(item *models.CatalogItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:        item.ID,
		Name:      item.Name,
		Category:  item.Category,
		ImageURL:  item.ImageURL,
		IsActive:  item.IsActive,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func fromModels(items []models.CatalogItem) []ItemDTO {
	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *fromModel(&items[i]))
	}
	return dtos
}
