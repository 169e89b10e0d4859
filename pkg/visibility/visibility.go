package visibility

import (
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
)

// EnsureVendorVisible enforces the canonical rules so unapproved vendors never
// leak through buyer-facing queries. Offers from vendors that fail these
// checks must not appear in matching results.
func EnsureVendorVisible(vendor *models.User) error {
	if vendor == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	if vendor.Role != enums.RoleVendor {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	if !vendor.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not available")
	}
	if vendor.VendorStatus == nil || *vendor.VendorStatus != enums.VendorStatusApproved {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not approved")
	}
	return nil
}

// IsVisible is the boolean form used when filtering offer lists.
func IsVisible(vendor *models.User) bool {
	return EnsureVendorVisible(vendor) == nil
}

// VisibleVendorScope is the SQL form of the same rules, for queries that join
// vendor_offers against users. Apply after the join.
func VisibleVendorScope(db *gorm.DB) *gorm.DB {
	return db.Where("users.role = ? AND users.vendor_status = ? AND users.is_active = ?",
		enums.RoleVendor, enums.VendorStatusApproved, true)
}
