package pricing

import (
	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// CommissionRate is the fixed platform cut applied at checkout. It is a
// business constant, not runtime configuration.
const CommissionRate = 0.05

// SelectedLine pairs one shopping list item with its selected offer.
type SelectedLine struct {
	ItemID        uuid.UUID
	OfferID       uuid.UUID
	VendorID      uuid.UUID
	CatalogItemID uuid.UUID
	ProductName   string
	Origin        string

	// Buyer request.
	Quantity float64
	Unit     enums.Unit

	// Selected offer terms.
	OfferPrice float64
	OfferUnit  enums.Unit
}

// QuoteLine is one priced checkout line. UnitPrice is expressed in the
// buyer's requested unit, not the vendor's.
type QuoteLine struct {
	ItemID        uuid.UUID
	OfferID       uuid.UUID
	VendorID      uuid.UUID
	CatalogItemID uuid.UUID
	ProductName   string
	Origin        string
	Quantity      float64
	Unit          enums.Unit
	UnitPrice     float64
	TotalPrice    float64
}

// Quote aggregates the selected lines into order totals.
type Quote struct {
	Lines      []QuoteLine
	Subtotal   float64
	Commission float64
	GrandTotal float64
}

// BuildQuote prices the selected lines and computes subtotal, the 5% platform
// commission and the grand total. Accumulation is unrounded; callers round to
// 2 decimals at presentation time via Round2.
func BuildQuote(lines []SelectedLine) Quote {
	quote := Quote{Lines: make([]QuoteLine, 0, len(lines))}

	for _, line := range lines {
		itemGrams := ToGrams(line.Quantity, line.Unit)
		pricePerGram := line.OfferPrice / UnitGrams(line.OfferUnit)
		lineTotal := pricePerGram * itemGrams

		quote.Lines = append(quote.Lines, QuoteLine{
			ItemID:        line.ItemID,
			OfferID:       line.OfferID,
			VendorID:      line.VendorID,
			CatalogItemID: line.CatalogItemID,
			ProductName:   line.ProductName,
			Origin:        line.Origin,
			Quantity:      line.Quantity,
			Unit:          line.Unit,
			UnitPrice:     pricePerGram * UnitGrams(line.Unit),
			TotalPrice:    lineTotal,
		})
		quote.Subtotal += lineTotal
	}

	quote.Commission = quote.Subtotal * CommissionRate
	quote.GrandTotal = quote.Subtotal + quote.Commission
	return quote
}
