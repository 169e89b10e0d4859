package checkout

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
)

// SelectionValidationInput describes one shopping list item ahead of checkout.
type SelectionValidationInput struct {
	ItemID      uuid.UUID
	ProductName string
	HasOffer    bool
}

// MissingSelectionDetail exposes the data returned when checkout preconditions fail.
type MissingSelectionDetail struct {
	ItemID      uuid.UUID `json:"item_id"`
	ProductName string    `json:"product_name,omitempty"`
}

// ValidateSelections ensures every shopping list item has a vendor selection.
// The error message names the first unselected item's product so the buyer
// knows what to fix.
func ValidateSelections(items []SelectionValidationInput) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shopping list has no items")
	}

	var missing []MissingSelectionDetail
	for _, item := range items {
		if !item.HasOffer {
			missing = append(missing, MissingSelectionDetail{
				ItemID:      item.ItemID,
				ProductName: item.ProductName,
			})
		}
	}
	if len(missing) == 0 {
		return nil
	}

	first := missing[0].ProductName
	if first == "" {
		first = "an item"
	}
	return pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("no vendor selected for %s", first)).
		WithDetails(map[string]any{"missing": missing})
}
