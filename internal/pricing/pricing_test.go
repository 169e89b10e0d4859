package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

func TestToGrams(t *testing.T) {
	assert.Equal(t, 2000.0, ToGrams(2, enums.UnitKilogram))
	assert.Equal(t, 500.0, ToGrams(500, enums.UnitGram))
	assert.Equal(t, 0.0, ToGrams(0, enums.UnitKilogram))
	assert.Equal(t, 1500.0, ToGrams(1.5, enums.UnitKilogram))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.0, Round2(1.004))
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 105.0, Round2(105.0000001))
}

func offer(item uuid.UUID, origin string, qty float64, unit enums.Unit, price float64) OfferCandidate {
	return OfferCandidate{
		OfferID:       uuid.New(),
		VendorID:      uuid.New(),
		CatalogItemID: item,
		ProductName:   "Apple",
		Origin:        origin,
		Quantity:      qty,
		Unit:          unit,
		Price:         price,
	}
}

func TestMatchOffers_EligibilityByGrams(t *testing.T) {
	item := uuid.New()
	// 2 kg requested; offer A has 5 kg at 1.00/kg, offer B only 1 kg at 0.50/kg.
	offerA := offer(item, "Spain", 5, enums.UnitKilogram, 1.00)
	offerB := offer(item, "Spain", 1, enums.UnitKilogram, 0.50)

	matches := MatchOffers(Request{
		CatalogItemID: item,
		Quantity:      2,
		Unit:          enums.UnitKilogram,
	}, []OfferCandidate{offerA, offerB})

	require.Len(t, matches, 1)
	assert.Equal(t, offerA.OfferID, matches[0].OfferID)
	assert.InDelta(t, 2.00, matches[0].TotalPrice, 1e-9)
	assert.True(t, matches[0].IsBestPrice)
}

func TestMatchOffers_CrossUnitPricing(t *testing.T) {
	item := uuid.New()
	// 500 g requested against a 2.00/kg offer.
	candidate := offer(item, "Kuwait", 3, enums.UnitKilogram, 2.00)

	matches := MatchOffers(Request{
		CatalogItemID: item,
		Quantity:      500,
		Unit:          enums.UnitGram,
	}, []OfferCandidate{candidate})

	require.Len(t, matches, 1)
	assert.InDelta(t, 0.002, matches[0].PricePerGram, 1e-12)
	assert.InDelta(t, 1.00, matches[0].TotalPrice, 1e-9)
}

func TestMatchOffers_SortedAscendingStable(t *testing.T) {
	item := uuid.New()
	cheap := offer(item, "Spain", 5, enums.UnitKilogram, 0.80)
	mid1 := offer(item, "Jordan", 5, enums.UnitKilogram, 1.00)
	mid2 := offer(item, "Egypt", 6, enums.UnitKilogram, 1.00)
	expensive := offer(item, "France", 5, enums.UnitKilogram, 2.00)

	matches := MatchOffers(Request{
		CatalogItemID: item,
		Quantity:      1,
		Unit:          enums.UnitKilogram,
	}, []OfferCandidate{expensive, mid1, mid2, cheap})

	require.Len(t, matches, 4)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].TotalPrice, matches[i].TotalPrice)
	}
	// Equal totals keep fetch order: mid1 was supplied before mid2.
	assert.Equal(t, mid1.OfferID, matches[1].OfferID)
	assert.Equal(t, mid2.OfferID, matches[2].OfferID)
}

func TestMatchOffers_DeduplicatesWithVendorCount(t *testing.T) {
	item := uuid.New()
	first := offer(item, "Spain", 5, enums.UnitKilogram, 1.00)
	duplicate := offer(item, "Spain", 5, enums.UnitKilogram, 1.00)
	distinct := offer(item, "Jordan", 5, enums.UnitKilogram, 1.00)

	matches := MatchOffers(Request{
		CatalogItemID: item,
		Quantity:      1,
		Unit:          enums.UnitKilogram,
	}, []OfferCandidate{first, duplicate, distinct})

	require.Len(t, matches, 2)

	seen := map[uuid.UUID]Match{}
	for _, m := range matches {
		seen[m.OfferID] = m
	}
	require.Contains(t, seen, first.OfferID)
	assert.Equal(t, 2, seen[first.OfferID].VendorCount)
	require.Contains(t, seen, distinct.OfferID)
	assert.Equal(t, 1, seen[distinct.OfferID].VendorCount)
}

func TestMatchOffers_BestPriceOnFirstOnly(t *testing.T) {
	item := uuid.New()
	matches := MatchOffers(Request{
		CatalogItemID: item,
		Quantity:      1,
		Unit:          enums.UnitKilogram,
	}, []OfferCandidate{
		offer(item, "Spain", 5, enums.UnitKilogram, 1.50),
		offer(item, "Jordan", 5, enums.UnitKilogram, 0.90),
		offer(item, "Egypt", 5, enums.UnitKilogram, 1.20),
	})

	require.Len(t, matches, 3)
	best := 0
	for i, m := range matches {
		if m.IsBestPrice {
			best++
			assert.Equal(t, 0, i, "best price must be the first entry")
		}
	}
	assert.Equal(t, 1, best)
}

func TestMatchOffers_PreferredOriginDoesNotFilter(t *testing.T) {
	item := uuid.New()
	spain := offer(item, "Spain", 5, enums.UnitKilogram, 1.00)
	jordan := offer(item, "Jordan", 5, enums.UnitKilogram, 0.80)

	preferred := "Spain"
	matches := MatchOffers(Request{
		CatalogItemID:   item,
		Quantity:        1,
		Unit:            enums.UnitKilogram,
		PreferredOrigin: &preferred,
	}, []OfferCandidate{spain, jordan})

	// Both origins survive; the preference only flags matching rows.
	require.Len(t, matches, 2)
	assert.Equal(t, jordan.OfferID, matches[0].OfferID)
	assert.False(t, matches[0].MatchesPreferredOrigin)
	assert.True(t, matches[1].MatchesPreferredOrigin)
}

func TestMatchOffers_NoEligibleOffersIsEmptyNotError(t *testing.T) {
	item := uuid.New()
	matches := MatchOffers(Request{
		CatalogItemID: item,
		Quantity:      10,
		Unit:          enums.UnitKilogram,
	}, []OfferCandidate{offer(item, "Spain", 1, enums.UnitKilogram, 1.00)})
	assert.Empty(t, matches)
}

func TestBuildQuote_CommissionIsFivePercent(t *testing.T) {
	line := SelectedLine{
		ItemID:      uuid.New(),
		OfferID:     uuid.New(),
		ProductName: "Apple",
		Quantity:    50,
		Unit:        enums.UnitKilogram,
		OfferPrice:  2.00,
		OfferUnit:   enums.UnitKilogram,
	}

	quote := BuildQuote([]SelectedLine{line})

	require.Len(t, quote.Lines, 1)
	assert.InDelta(t, 100.00, quote.Subtotal, 1e-9)
	assert.InDelta(t, 5.00, quote.Commission, 1e-9)
	assert.InDelta(t, 105.00, quote.GrandTotal, 1e-9)
	assert.InDelta(t, quote.Subtotal+quote.Subtotal*CommissionRate, quote.GrandTotal, 1e-12)
}

func TestBuildQuote_UnitPriceInBuyerUnit(t *testing.T) {
	// Buyer asks for 500 g; vendor sells at 2.00/kg. The displayed unit price
	// must be per gram (buyer's unit), not per kg.
	line := SelectedLine{
		ItemID:     uuid.New(),
		Quantity:   500,
		Unit:       enums.UnitGram,
		OfferPrice: 2.00,
		OfferUnit:  enums.UnitKilogram,
	}

	quote := BuildQuote([]SelectedLine{line})

	require.Len(t, quote.Lines, 1)
	assert.InDelta(t, 0.002, quote.Lines[0].UnitPrice, 1e-12)
	assert.InDelta(t, 1.00, quote.Lines[0].TotalPrice, 1e-9)
}

func TestBuildQuote_MultipleLinesAccumulate(t *testing.T) {
	lines := []SelectedLine{
		{Quantity: 2, Unit: enums.UnitKilogram, OfferPrice: 1.00, OfferUnit: enums.UnitKilogram},
		{Quantity: 500, Unit: enums.UnitGram, OfferPrice: 2.00, OfferUnit: enums.UnitKilogram},
	}

	quote := BuildQuote(lines)

	assert.InDelta(t, 3.00, quote.Subtotal, 1e-9)
	assert.InDelta(t, 0.15, quote.Commission, 1e-9)
	assert.InDelta(t, 3.15, quote.GrandTotal, 1e-9)
}

func TestBuildQuote_EmptyLines(t *testing.T) {
	quote := BuildQuote(nil)
	assert.Empty(t, quote.Lines)
	assert.Zero(t, quote.Subtotal)
	assert.Zero(t, quote.Commission)
	assert.Zero(t, quote.GrandTotal)
}
