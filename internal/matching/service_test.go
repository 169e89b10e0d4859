package matching

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aldousari/sooqfresh-backend/internal/shopping"
	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
)

func setupMatchingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT,
			role TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			last_login_at DATETIME,
			vendor_status TEXT,
			business_name TEXT,
			notification_preference TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE catalog_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			image_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE vendor_offers (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL,
			catalog_item_id TEXT NOT NULL,
			quantity REAL NOT NULL,
			initial_quantity REAL NOT NULL,
			unit TEXT NOT NULL,
			price REAL NOT NULL,
			origin TEXT NOT NULL,
			image_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			quality_report TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE shopping_lists (
			id TEXT PRIMARY KEY,
			buyer_id TEXT NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE shopping_list_items (
			id TEXT PRIMARY KEY,
			shopping_list_id TEXT NOT NULL,
			catalog_item_id TEXT NOT NULL,
			quantity REAL NOT NULL,
			unit TEXT NOT NULL,
			preferred_origin TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE selections (
			id TEXT PRIMARY KEY,
			shopping_list_item_id TEXT NOT NULL UNIQUE,
			vendor_offer_id TEXT NOT NULL,
			total_price REAL NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type matchingFixture struct {
	svc     Service
	db      *gorm.DB
	buyerID uuid.UUID
	listID  uuid.UUID
	itemID  uuid.UUID
	apple   uuid.UUID
}

func setupMatchingFixture(t *testing.T) *matchingFixture {
	t.Helper()
	db := setupMatchingTestDB(t)

	svc, err := NewService(NewRepository(db), shopping.NewRepository(db))
	require.NoError(t, err)

	apple := models.CatalogItem{
		ID: uuid.New(), Name: "Apple", Category: enums.ProduceCategoryFruit, IsActive: true,
	}
	require.NoError(t, db.Create(&apple).Error)

	buyerID := uuid.New()
	list := models.ShoppingList{
		ID: uuid.New(), BuyerID: buyerID, Name: "Weekly", Status: enums.ShoppingListStatusDraft,
	}
	require.NoError(t, db.Create(&list).Error)

	item := models.ShoppingListItem{
		ID:             uuid.New(),
		ShoppingListID: list.ID,
		CatalogItemID:  apple.ID,
		Quantity:       2,
		Unit:           enums.UnitKilogram,
	}
	require.NoError(t, db.Create(&item).Error)

	return &matchingFixture{
		svc:     svc,
		db:      db,
		buyerID: buyerID,
		listID:  list.ID,
		itemID:  item.ID,
		apple:   apple.ID,
	}
}

func (f *matchingFixture) seedVendor(t *testing.T, email string, status enums.VendorStatus) uuid.UUID {
	t.Helper()
	business := "Farm " + email
	vendor := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		Name:         "Vendor",
		Role:         enums.RoleVendor,
		IsActive:     true,
		VendorStatus: &status,
		BusinessName: &business,
	}
	require.NoError(t, f.db.Create(&vendor).Error)
	return vendor.ID
}

func (f *matchingFixture) seedOffer(t *testing.T, vendorID uuid.UUID, qty, price float64, origin string, active bool) uuid.UUID {
	t.Helper()
	offer := models.VendorOffer{
		ID:              uuid.New(),
		VendorID:        vendorID,
		CatalogItemID:   f.apple,
		Quantity:        qty,
		InitialQuantity: qty,
		Unit:            enums.UnitKilogram,
		Price:           price,
		Origin:          origin,
		IsActive:        active,
	}
	require.NoError(t, f.db.Create(&offer).Error)
	return offer.ID
}

func TestGetMatches_RanksAndAnnotates(t *testing.T) {
	f := setupMatchingFixture(t)
	ctx := context.Background()

	approved := f.seedVendor(t, "a@example.com", enums.VendorStatusApproved)
	cheapID := f.seedOffer(t, approved, 5, 0.80, "Jordan", true)
	f.seedOffer(t, approved, 5, 1.20, "Spain", true)

	resp, err := f.svc.GetMatches(ctx, f.buyerID, f.itemID)
	require.NoError(t, err)
	assert.Equal(t, "Apple", resp.ProductName)
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, cheapID, resp.Matches[0].OfferID)
	assert.True(t, resp.Matches[0].IsBestPrice)
	assert.InDelta(t, 1.60, resp.Matches[0].TotalPrice, 1e-9)
	assert.False(t, resp.Matches[1].IsBestPrice)
}

func TestGetMatches_ExcludesInactiveAndUnapproved(t *testing.T) {
	f := setupMatchingFixture(t)
	ctx := context.Background()

	approved := f.seedVendor(t, "a@example.com", enums.VendorStatusApproved)
	pending := f.seedVendor(t, "p@example.com", enums.VendorStatusPending)

	visible := f.seedOffer(t, approved, 5, 1.00, "Spain", true)
	f.seedOffer(t, approved, 5, 0.50, "Spain", false)
	f.seedOffer(t, pending, 5, 0.25, "Spain", true)

	resp, err := f.svc.GetMatches(ctx, f.buyerID, f.itemID)
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, visible, resp.Matches[0].OfferID)
}

func TestGetMatches_NoOffersIsEmptyList(t *testing.T) {
	f := setupMatchingFixture(t)

	resp, err := f.svc.GetMatches(context.Background(), f.buyerID, f.itemID)
	require.NoError(t, err)
	assert.Empty(t, resp.Matches)
}

func TestGetMatches_UnknownItem(t *testing.T) {
	f := setupMatchingFixture(t)

	_, err := f.svc.GetMatches(context.Background(), f.buyerID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestGetMatches_OtherBuyersItemReadsNotFound(t *testing.T) {
	f := setupMatchingFixture(t)

	_, err := f.svc.GetMatches(context.Background(), uuid.New(), f.itemID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSelectOffer(t *testing.T) {
	f := setupMatchingFixture(t)
	ctx := context.Background()

	approved := f.seedVendor(t, "a@example.com", enums.VendorStatusApproved)
	offerID := f.seedOffer(t, approved, 5, 1.00, "Spain", true)

	result, err := f.svc.SelectOffer(ctx, f.buyerID, f.itemID, offerID)
	require.NoError(t, err)
	assert.Equal(t, offerID, result.VendorOfferID)
	assert.InDelta(t, 2.00, result.TotalPrice, 1e-9)
}

func TestSelectOffer_ReplacesPriorSelection(t *testing.T) {
	f := setupMatchingFixture(t)
	ctx := context.Background()

	approved := f.seedVendor(t, "a@example.com", enums.VendorStatusApproved)
	first := f.seedOffer(t, approved, 5, 1.00, "Spain", true)
	second := f.seedOffer(t, approved, 5, 0.90, "Jordan", true)

	_, err := f.svc.SelectOffer(ctx, f.buyerID, f.itemID, first)
	require.NoError(t, err)
	result, err := f.svc.SelectOffer(ctx, f.buyerID, f.itemID, second)
	require.NoError(t, err)

	var selections []models.Selection
	require.NoError(t, f.db.Find(&selections).Error)
	require.Len(t, selections, 1)
	assert.Equal(t, second, selections[0].VendorOfferID)
	assert.Equal(t, result.SelectionID, selections[0].ID)
}

func TestSelectOffer_InactiveOfferReadsNotFound(t *testing.T) {
	f := setupMatchingFixture(t)
	ctx := context.Background()

	approved := f.seedVendor(t, "a@example.com", enums.VendorStatusApproved)
	offerID := f.seedOffer(t, approved, 5, 1.00, "Spain", false)

	_, err := f.svc.SelectOffer(ctx, f.buyerID, f.itemID, offerID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSelectOffer_WrongProduct(t *testing.T) {
	f := setupMatchingFixture(t)
	ctx := context.Background()

	carrot := models.CatalogItem{
		ID: uuid.New(), Name: "Carrot", Category: enums.ProduceCategoryVegetable, IsActive: true,
	}
	require.NoError(t, f.db.Create(&carrot).Error)

	approved := f.seedVendor(t, "a@example.com", enums.VendorStatusApproved)
	offer := models.VendorOffer{
		ID:              uuid.New(),
		VendorID:        approved,
		CatalogItemID:   carrot.ID,
		Quantity:        5,
		InitialQuantity: 5,
		Unit:            enums.UnitKilogram,
		Price:           1,
		Origin:          "Kuwait",
		IsActive:        true,
	}
	require.NoError(t, f.db.Create(&offer).Error)

	_, err := f.svc.SelectOffer(ctx, f.buyerID, f.itemID, offer.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSelectOffer_CompletedListRejected(t *testing.T) {
	f := setupMatchingFixture(t)
	ctx := context.Background()

	approved := f.seedVendor(t, "a@example.com", enums.VendorStatusApproved)
	offerID := f.seedOffer(t, approved, 5, 1.00, "Spain", true)

	require.NoError(t, f.db.Model(&models.ShoppingList{}).
		Where("id = ?", f.listID).
		UpdateColumn("status", enums.ShoppingListStatusCompleted).Error)

	_, err := f.svc.SelectOffer(ctx, f.buyerID, f.itemID, offerID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}
