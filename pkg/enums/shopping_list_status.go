package enums

import "fmt"

// ShoppingListStatus tracks the lifecycle of a buyer shopping list.
// Checkout flips draft to completed exactly once; there is no undo path.
type ShoppingListStatus string

const (
	ShoppingListStatusDraft     ShoppingListStatus = "draft"
	ShoppingListStatusCompleted ShoppingListStatus = "completed"
)

var validShoppingListStatuses = []ShoppingListStatus{
	ShoppingListStatusDraft,
	ShoppingListStatusCompleted,
}

// String implements fmt.Stringer.
func (s ShoppingListStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShoppingListStatus.
func (s ShoppingListStatus) IsValid() bool {
	for _, candidate := range validShoppingListStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShoppingListStatus converts raw input into a ShoppingListStatus.
func ParseShoppingListStatus(value string) (ShoppingListStatus, error) {
	for _, candidate := range validShoppingListStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shopping list status %q", value)
}
