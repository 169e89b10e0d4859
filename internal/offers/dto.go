package offers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// OfferDTO is the transport shape of one vendor offer.
type OfferDTO struct {
	ID              uuid.UUID       `json:"id"`
	VendorID        uuid.UUID       `json:"vendor_id"`
	CatalogItemID   uuid.UUID       `json:"catalog_item_id"`
	ProductName     string          `json:"product_name,omitempty"`
	Quantity        float64         `json:"quantity"`
	InitialQuantity float64         `json:"initial_quantity"`
	Unit            enums.Unit      `json:"unit"`
	Price           float64         `json:"price"`
	Origin          string          `json:"origin"`
	ImageURL        *string         `json:"image_url,omitempty"`
	IsActive        bool            `json:"is_active"`
	QualityReport   json.RawMessage `json:"quality_report,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateOfferRequest is the vendor payload to list produce.
type CreateOfferRequest struct {
	CatalogItemID uuid.UUID `json:"catalog_item_id" validate:"required"`
	Quantity      float64   `json:"quantity" validate:"required,gt=0"`
	Unit          string    `json:"unit" validate:"required,oneof=kg gram"`
	Price         float64   `json:"price" validate:"required,gt=0"`
	Origin        string    `json:"origin" validate:"required"`
	ImageURL      *string   `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateOfferRequest carries optional mutations for an offer.
type UpdateOfferRequest struct {
	Quantity *float64 `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Origin   *string  `json:"origin,omitempty"`
	ImageURL *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive *bool    `json:"is_active,omitempty"`
}

func fromModel(offer *models.VendorOffer) *OfferDTO {
	if offer == nil {
		return nil
	}
	dto := &OfferDTO{
		ID:              offer.ID,
		VendorID:        offer.VendorID,
		CatalogItemID:   offer.CatalogItemID,
		Quantity:        offer.Quantity,
		InitialQuantity: offer.InitialQuantity,
		Unit:            offer.Unit,
		Price:           offer.Price,
		Origin:          offer.Origin,
		ImageURL:        offer.ImageURL,
		IsActive:        offer.IsActive,
		QualityReport:   offer.QualityReport,
		CreatedAt:       offer.CreatedAt,
		UpdatedAt:       offer.UpdatedAt,
	}
	if offer.CatalogItem != nil {
		dto.ProductName = offer.CatalogItem.Name
	}
	return dto
}

func fromModels(offers []models.VendorOffer) []OfferDTO {
	dtos := make([]OfferDTO, 0, len(offers))
	for i := range offers {
		dtos = append(dtos, *fromModel(&offers[i]))
	}
	return dtos
}
