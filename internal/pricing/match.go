package pricing

import (
	"sort"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// Request is a buyer's normalized produce need.
type Request struct {
	CatalogItemID   uuid.UUID
	Quantity        float64
	Unit            enums.Unit
	PreferredOrigin *string
}

// OfferCandidate is one active offer from an approved vendor, already scoped
// to the request's catalog item.
type OfferCandidate struct {
	OfferID       uuid.UUID
	VendorID      uuid.UUID
	VendorName    string
	CatalogItemID uuid.UUID
	ProductName   string
	Origin        string
	Quantity      float64
	Unit          enums.Unit
	Price         float64
	ImageURL      *string
}

// Match is one ranked, deduplicated candidate annotated with request pricing.
type Match struct {
	OfferID           uuid.UUID
	VendorID          uuid.UUID
	VendorName        string
	CatalogItemID     uuid.UUID
	ProductName       string
	Origin            string
	AvailableQuantity float64
	Unit              enums.Unit
	Price             float64
	ImageURL          *string

	PricePerGram           float64
	TotalPrice             float64
	VendorCount            int
	IsBestPrice            bool
	MatchesPreferredOrigin bool
}

type dedupKey struct {
	catalogItemID uuid.UUID
	origin        string
	quantity      float64
	price         float64
}

// MatchOffers ranks the candidate offers for a request.
//
// Eligibility requires the offer's available stock in grams to cover the
// requested grams. Survivors are priced per gram, sorted ascending by total
// price (stable, so fetch order breaks ties), deduplicated on
// (catalog item, origin, quantity, price) with a vendor count, and the first
// entry is flagged best price.
//
// The request's preferred origin never filters results; it only sets the
// MatchesPreferredOrigin display flag.
func MatchOffers(req Request, offers []OfferCandidate) []Match {
	requestGrams := ToGrams(req.Quantity, req.Unit)

	matches := make([]Match, 0, len(offers))
	for _, offer := range offers {
		if ToGrams(offer.Quantity, offer.Unit) < requestGrams {
			continue
		}
		pricePerGram := offer.Price / UnitGrams(offer.Unit)
		matches = append(matches, Match{
			OfferID:           offer.OfferID,
			VendorID:          offer.VendorID,
			VendorName:        offer.VendorName,
			CatalogItemID:     offer.CatalogItemID,
			ProductName:       offer.ProductName,
			Origin:            offer.Origin,
			AvailableQuantity: offer.Quantity,
			Unit:              offer.Unit,
			Price:             offer.Price,
			ImageURL:          offer.ImageURL,
			PricePerGram:      pricePerGram,
			TotalPrice:        pricePerGram * requestGrams,
			VendorCount:       1,
			MatchesPreferredOrigin: req.PreferredOrigin != nil &&
				*req.PreferredOrigin == offer.Origin,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].TotalPrice < matches[j].TotalPrice
	})

	deduped := make([]Match, 0, len(matches))
	seen := make(map[dedupKey]int)
	for _, m := range matches {
		key := dedupKey{
			catalogItemID: m.CatalogItemID,
			origin:        m.Origin,
			quantity:      m.AvailableQuantity,
			price:         m.Price,
		}
		if idx, ok := seen[key]; ok {
			deduped[idx].VendorCount++
			continue
		}
		seen[key] = len(deduped)
		deduped = append(deduped, m)
	}

	if len(deduped) > 0 {
		deduped[0].IsBestPrice = true
	}
	return deduped
}
