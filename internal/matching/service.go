package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/internal/pricing"
	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
)

// Service ranks vendor offers for a buyer's shopping list item and records
// the buyer's pick.
type Service interface {
	GetMatches(ctx context.Context, buyerID, itemID uuid.UUID) (*MatchesResponse, error)
	SelectOffer(ctx context.Context, buyerID, itemID, offerID uuid.UUID) (*SelectionResult, error)
}

// MatchesResponse pairs the requested item with its ranked offers.
type MatchesResponse struct {
	ItemID          uuid.UUID  `json:"item_id"`
	CatalogItemID   uuid.UUID  `json:"catalog_item_id"`
	ProductName     string     `json:"product_name,omitempty"`
	Quantity        float64    `json:"quantity"`
	Unit            enums.Unit `json:"unit"`
	PreferredOrigin *string    `json:"preferred_origin,omitempty"`
	Matches         []MatchDTO `json:"matches"`
}

// MatchDTO is one ranked offer with request-specific pricing, rounded for
// display.
type MatchDTO struct {
	OfferID                uuid.UUID  `json:"offer_id"`
	VendorID               uuid.UUID  `json:"vendor_id"`
	VendorName             string     `json:"vendor_name,omitempty"`
	Origin                 string     `json:"origin"`
	AvailableQuantity      float64    `json:"available_quantity"`
	Unit                   enums.Unit `json:"unit"`
	Price                  float64    `json:"price"`
	ImageURL               *string    `json:"image_url,omitempty"`
	PricePerGram           float64    `json:"price_per_gram"`
	TotalPrice             float64    `json:"total_price"`
	VendorCount            int        `json:"vendor_count"`
	IsBestPrice            bool       `json:"is_best_price"`
	MatchesPreferredOrigin bool       `json:"matches_preferred_origin"`
}

// SelectionResult reports the stored selection.
type SelectionResult struct {
	SelectionID   uuid.UUID `json:"selection_id"`
	ItemID        uuid.UUID `json:"item_id"`
	VendorOfferID uuid.UUID `json:"vendor_offer_id"`
	TotalPrice    float64   `json:"total_price"`
}

type itemLoader interface {
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.ShoppingListItem, error)
	FindListByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error)
}

type service struct {
	repo  *Repository
	lists itemLoader
}

// NewService constructs a matching service instance.
func NewService(repo *Repository, lists itemLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("matching repository required")
	}
	if lists == nil {
		return nil, fmt.Errorf("shopping repository required")
	}
	return &service{repo: repo, lists: lists}, nil
}

func (s *service) GetMatches(ctx context.Context, buyerID, itemID uuid.UUID) (*MatchesResponse, error) {
	item, err := s.loadOwnedItem(ctx, buyerID, itemID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.ActiveOffers(ctx, item.CatalogItemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offers")
	}

	matches := pricing.MatchOffers(pricing.Request{
		CatalogItemID:   item.CatalogItemID,
		Quantity:        item.Quantity,
		Unit:            item.Unit,
		PreferredOrigin: item.PreferredOrigin,
	}, candidates)

	resp := &MatchesResponse{
		ItemID:          item.ID,
		CatalogItemID:   item.CatalogItemID,
		Quantity:        item.Quantity,
		Unit:            item.Unit,
		PreferredOrigin: item.PreferredOrigin,
		Matches:         make([]MatchDTO, 0, len(matches)),
	}
	if item.CatalogItem != nil {
		resp.ProductName = item.CatalogItem.Name
	}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, MatchDTO{
			OfferID:                m.OfferID,
			VendorID:               m.VendorID,
			VendorName:             m.VendorName,
			Origin:                 m.Origin,
			AvailableQuantity:      m.AvailableQuantity,
			Unit:                   m.Unit,
			Price:                  m.Price,
			ImageURL:               m.ImageURL,
			PricePerGram:           m.PricePerGram,
			TotalPrice:             pricing.Round2(m.TotalPrice),
			VendorCount:            m.VendorCount,
			IsBestPrice:            m.IsBestPrice,
			MatchesPreferredOrigin: m.MatchesPreferredOrigin,
		})
	}
	return resp, nil
}

// SelectOffer replaces the item's selection with the given offer. Inactive,
// unknown, or unapproved-vendor offers all read as not found.
func (s *service) SelectOffer(ctx context.Context, buyerID, itemID, offerID uuid.UUID) (*SelectionResult, error) {
	item, err := s.loadOwnedItem(ctx, buyerID, itemID)
	if err != nil {
		return nil, err
	}

	offer, err := s.repo.FindActiveOffer(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("offer")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offer")
	}
	if offer.CatalogItemID != item.CatalogItemID {
		return nil, pkgerrors.Validation("offer is for a different product")
	}

	pricePerGram := offer.Price / pricing.UnitGrams(offer.Unit)
	totalPrice := pricePerGram * pricing.ToGrams(item.Quantity, item.Unit)

	selection, err := s.repo.ReplaceSelection(ctx, item.ID, offer.ID, totalPrice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store selection")
	}
	return &SelectionResult{
		SelectionID:   selection.ID,
		ItemID:        item.ID,
		VendorOfferID: selection.VendorOfferID,
		TotalPrice:    selection.TotalPrice,
	}, nil
}

func (s *service) loadOwnedItem(ctx context.Context, buyerID, itemID uuid.UUID) (*models.ShoppingListItem, error) {
	item, err := s.lists.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("shopping list item")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shopping list item")
	}

	list, err := s.lists.FindListByID(ctx, item.ShoppingListID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shopping list")
	}
	if list.BuyerID != buyerID {
		return nil, pkgerrors.NotFound("shopping list item")
	}
	if list.Status != enums.ShoppingListStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shopping list is already completed")
	}
	return item, nil
}
