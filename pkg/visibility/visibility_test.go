package visibility

import (
	"testing"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	"github.com/aldousari/sooqfresh-backend/pkg/errors"
)

func approvedVendor() *models.User {
	status := enums.VendorStatusApproved
	return &models.User{
		Role:         enums.RoleVendor,
		IsActive:     true,
		VendorStatus: &status,
	}
}

func TestEnsureVendorVisible(t *testing.T) {
	t.Run("vendor missing", func(t *testing.T) {
		err := EnsureVendorVisible(nil)
		if err == nil {
			t.Fatal("expected not found")
		}
		if errors.As(err).Code() != errors.CodeNotFound {
			t.Fatalf("expected not found code, got %s", errors.As(err).Code())
		}
	})
	t.Run("wrong role", func(t *testing.T) {
		vendor := approvedVendor()
		vendor.Role = enums.RoleBuyer
		err := EnsureVendorVisible(vendor)
		if err == nil || errors.As(err).Code() != errors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
	t.Run("inactive account", func(t *testing.T) {
		vendor := approvedVendor()
		vendor.IsActive = false
		err := EnsureVendorVisible(vendor)
		if err == nil || errors.As(err).Code() != errors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
	t.Run("pending vendor", func(t *testing.T) {
		vendor := approvedVendor()
		status := enums.VendorStatusPending
		vendor.VendorStatus = &status
		err := EnsureVendorVisible(vendor)
		if err == nil || errors.As(err).Code() != errors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
	t.Run("rejected vendor", func(t *testing.T) {
		vendor := approvedVendor()
		status := enums.VendorStatusRejected
		vendor.VendorStatus = &status
		err := EnsureVendorVisible(vendor)
		if err == nil || errors.As(err).Code() != errors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
	t.Run("missing status", func(t *testing.T) {
		vendor := approvedVendor()
		vendor.VendorStatus = nil
		err := EnsureVendorVisible(vendor)
		if err == nil || errors.As(err).Code() != errors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
	t.Run("success", func(t *testing.T) {
		if err := EnsureVendorVisible(approvedVendor()); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
	})
}

func TestIsVisible(t *testing.T) {
	if !IsVisible(approvedVendor()) {
		t.Fatal("approved vendor should be visible")
	}
	if IsVisible(nil) {
		t.Fatal("nil vendor should not be visible")
	}
}
