package enums

import "fmt"

// VendorStatus tracks the admin approval state of a vendor account.
// Offers from non-approved vendors are invisible to matching.
type VendorStatus string

const (
	VendorStatusPending  VendorStatus = "pending"
	VendorStatusApproved VendorStatus = "approved"
	VendorStatusRejected VendorStatus = "rejected"
)

var validVendorStatuses = []VendorStatus{
	VendorStatusPending,
	VendorStatusApproved,
	VendorStatusRejected,
}

// String implements fmt.Stringer.
func (s VendorStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known VendorStatus.
func (s VendorStatus) IsValid() bool {
	for _, candidate := range validVendorStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseVendorStatus converts raw input into a VendorStatus.
func ParseVendorStatus(value string) (VendorStatus, error) {
	for _, candidate := range validVendorStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vendor status %q", value)
}
