package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

type fakeUserLoader struct {
	users map[uuid.UUID]*models.User
}

func (f fakeUserLoader) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func vendorUser(id uuid.UUID, status enums.VendorStatus, active bool) *models.User {
	return &models.User{
		ID:           id,
		Role:         enums.RoleVendor,
		IsActive:     active,
		VendorStatus: &status,
	}
}

func callApprovedVendor(t *testing.T, loader UserLoader, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	handler := ApprovedVendor(loader, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestApprovedVendorAllowsApproved(t *testing.T) {
	id := uuid.New()
	loader := fakeUserLoader{users: map[uuid.UUID]*models.User{
		id: vendorUser(id, enums.VendorStatusApproved, true),
	}}

	resp := callApprovedVendor(t, loader, id)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestApprovedVendorBlocksPending(t *testing.T) {
	id := uuid.New()
	loader := fakeUserLoader{users: map[uuid.UUID]*models.User{
		id: vendorUser(id, enums.VendorStatusPending, true),
	}}

	resp := callApprovedVendor(t, loader, id)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestApprovedVendorBlocksDeactivated(t *testing.T) {
	id := uuid.New()
	loader := fakeUserLoader{users: map[uuid.UUID]*models.User{
		id: vendorUser(id, enums.VendorStatusApproved, false),
	}}

	resp := callApprovedVendor(t, loader, id)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestApprovedVendorUnknownAccount(t *testing.T) {
	resp := callApprovedVendor(t, fakeUserLoader{}, uuid.New())
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
