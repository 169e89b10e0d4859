package enums

import "fmt"

// OrderItemStatus tracks per-item fulfillment, advanced by the vendor.
// Transitions are forward-only: pending -> preparing -> ready -> completed.
type OrderItemStatus string

const (
	OrderItemStatusPending   OrderItemStatus = "pending"
	OrderItemStatusPreparing OrderItemStatus = "preparing"
	OrderItemStatusReady     OrderItemStatus = "ready"
	OrderItemStatusCompleted OrderItemStatus = "completed"
)

var validOrderItemStatuses = []OrderItemStatus{
	OrderItemStatusPending,
	OrderItemStatusPreparing,
	OrderItemStatusReady,
	OrderItemStatusCompleted,
}

var orderItemStatusRank = map[OrderItemStatus]int{
	OrderItemStatusPending:   0,
	OrderItemStatusPreparing: 1,
	OrderItemStatusReady:     2,
	OrderItemStatusCompleted: 3,
}

// String implements fmt.Stringer.
func (s OrderItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderItemStatus.
func (s OrderItemStatus) IsValid() bool {
	for _, candidate := range validOrderItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanAdvanceTo reports whether the transition from s to next moves forward.
func (s OrderItemStatus) CanAdvanceTo(next OrderItemStatus) bool {
	current, ok := orderItemStatusRank[s]
	if !ok {
		return false
	}
	target, ok := orderItemStatusRank[next]
	if !ok {
		return false
	}
	return target > current
}

// ParseOrderItemStatus converts raw input into an OrderItemStatus.
func ParseOrderItemStatus(value string) (OrderItemStatus, error) {
	for _, candidate := range validOrderItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order item status %q", value)
}
