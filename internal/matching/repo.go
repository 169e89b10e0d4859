package matching

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/internal/pricing"
	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/visibility"
)

// Repository exposes the offer and selection queries behind matching.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a matching repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveOffers returns the active offers for a catalog item from approved,
// active vendors, in listing order. Listing order is the tie-break the
// ranking preserves for equal totals.
func (r *Repository) ActiveOffers(ctx context.Context, catalogItemID uuid.UUID) ([]pricing.OfferCandidate, error) {
	var offers []models.VendorOffer
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("CatalogItem").
		Joins("JOIN users ON users.id = vendor_offers.vendor_id").
		Where("vendor_offers.catalog_item_id = ?", catalogItemID).
		Where("vendor_offers.is_active = ?", true).
		Scopes(visibility.VisibleVendorScope).
		Order("vendor_offers.created_at ASC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]pricing.OfferCandidate, 0, len(offers))
	for _, offer := range offers {
		candidate := pricing.OfferCandidate{
			OfferID:       offer.ID,
			VendorID:      offer.VendorID,
			CatalogItemID: offer.CatalogItemID,
			Origin:        offer.Origin,
			Quantity:      offer.Quantity,
			Unit:          offer.Unit,
			Price:         offer.Price,
			ImageURL:      offer.ImageURL,
		}
		if offer.Vendor != nil {
			if offer.Vendor.BusinessName != nil {
				candidate.VendorName = *offer.Vendor.BusinessName
			} else {
				candidate.VendorName = offer.Vendor.Name
			}
		}
		if offer.CatalogItem != nil {
			candidate.ProductName = offer.CatalogItem.Name
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// FindActiveOffer loads an offer only when it is active and its vendor is an
// approved, active vendor. Anything else reads as record-not-found.
func (r *Repository) FindActiveOffer(ctx context.Context, offerID uuid.UUID) (*models.VendorOffer, error) {
	var offer models.VendorOffer
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = vendor_offers.vendor_id").
		Where("vendor_offers.id = ?", offerID).
		Where("vendor_offers.is_active = ?", true).
		Scopes(visibility.VisibleVendorScope).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// ReplaceSelection swaps the item's selection for the given offer. Any prior
// selection is removed in the same transaction.
func (r *Repository) ReplaceSelection(ctx context.Context, itemID, offerID uuid.UUID, totalPrice float64) (*models.Selection, error) {
	selection := &models.Selection{
		ID:                 uuid.New(),
		ShoppingListItemID: itemID,
		VendorOfferID:      offerID,
		TotalPrice:         totalPrice,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Selection{}, "shopping_list_item_id = ?", itemID).Error; err != nil {
			return err
		}
		return tx.Create(selection).Error
	})
	if err != nil {
		return nil, err
	}
	return selection, nil
}
