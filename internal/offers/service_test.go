package offers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aldousari/sooqfresh-backend/internal/catalog"
	"github.com/aldousari/sooqfresh-backend/internal/users"
	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
	"github.com/aldousari/sooqfresh-backend/pkg/vision"
)

type fakeAnalyzer struct {
	report *vision.QualityReport
	err    error
	calls  int
}

func (f *fakeAnalyzer) AnalyzeProductImage(_ context.Context, _, _ string) (*vision.QualityReport, error) {
	f.calls++
	return f.report, f.err
}

func setupOffersTestDB(t *testing.T) *gorm.DB {
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

type offersFixture struct {
	svc      Service
	db       *gorm.DB
	analyzer *fakeAnalyzer
	vendorID uuid.UUID
	itemID   uuid.UUID
}

func setupOffersFixture(t *testing.T) *offersFixture {
	t.Helper()
	db := setupOffersTestDB(t)

	analyzer := &fakeAnalyzer{}
	svc, err := NewService(ServiceParams{
		Repo:       NewRepository(db),
		VendorRepo: users.NewRepository(db),
		Catalog:    catalog.NewRepository(db),
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Analyzer:   analyzer,
	})
	require.NoError(t, err)

	vendorID := seedVendor(t, db, "vendor@example.com", enums.VendorStatusApproved)
	itemID := seedCatalogItem(t, db, "Apple")

	return &offersFixture{svc: svc, db: db, analyzer: analyzer, vendorID: vendorID, itemID: itemID}
}

func seedVendor(t *testing.T, db *gorm.DB, email string, status enums.VendorStatus) uuid.UUID {
	t.Helper()
	business := "Green Farms"
	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		Name:         "Vendor",
		Role:         enums.RoleVendor,
		IsActive:     true,
		VendorStatus: &status,
		BusinessName: &business,
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func seedCatalogItem(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	item := models.CatalogItem{
		ID:       uuid.New(),
		Name:     name,
		Category: enums.ProduceCategoryFruit,
		IsActive: true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item.ID
}

func validCreateRequest(itemID uuid.UUID) CreateOfferRequest {
	img := "https://img.example.com/apples.jpg"
	return CreateOfferRequest{
		CatalogItemID: itemID,
		Quantity:      5,
		Unit:          "kg",
		Price:         1.5,
		Origin:        "Spain",
		ImageURL:      &img,
	}
}

func TestCreateOffer(t *testing.T) {
	f := setupOffersFixture(t)

	offer, err := f.svc.CreateOffer(context.Background(), f.vendorID, validCreateRequest(f.itemID))
	require.NoError(t, err)
	assert.Equal(t, 5.0, offer.Quantity)
	assert.Equal(t, 5.0, offer.InitialQuantity)
	assert.Equal(t, enums.UnitKilogram, offer.Unit)
	assert.Equal(t, "Apple", offer.ProductName)
	assert.True(t, offer.IsActive)
}

func TestCreateOffer_RequiresApprovedVendor(t *testing.T) {
	f := setupOffersFixture(t)
	pending := seedVendor(t, f.db, "pending@example.com", enums.VendorStatusPending)

	_, err := f.svc.CreateOffer(context.Background(), pending, validCreateRequest(f.itemID))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestCreateOffer_UnknownCatalogItem(t *testing.T) {
	f := setupOffersFixture(t)

	req := validCreateRequest(uuid.New())
	_, err := f.svc.CreateOffer(context.Background(), f.vendorID, req)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateOffer_Validation(t *testing.T) {
	f := setupOffersFixture(t)
	ctx := context.Background()

	for name, mutate := range map[string]func(*CreateOfferRequest){
		"zero quantity":  func(r *CreateOfferRequest) { r.Quantity = 0 },
		"zero price":     func(r *CreateOfferRequest) { r.Price = 0 },
		"bad unit":       func(r *CreateOfferRequest) { r.Unit = "pound" },
		"missing origin": func(r *CreateOfferRequest) { r.Origin = "  " },
	} {
		t.Run(name, func(t *testing.T) {
			req := validCreateRequest(f.itemID)
			mutate(&req)
			_, err := f.svc.CreateOffer(ctx, f.vendorID, req)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestUpdateOffer(t *testing.T) {
	f := setupOffersFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateOffer(ctx, f.vendorID, validCreateRequest(f.itemID))
	require.NoError(t, err)

	qty := 3.0
	price := 2.25
	updated, err := f.svc.UpdateOffer(ctx, f.vendorID, created.ID, UpdateOfferRequest{
		Quantity: &qty,
		Price:    &price,
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, updated.Quantity)
	assert.Equal(t, 2.25, updated.Price)
	// Initial stock stays frozen at listing time.
	assert.Equal(t, 5.0, updated.InitialQuantity)
}

func TestUpdateOffer_OtherVendorsOfferReadsNotFound(t *testing.T) {
	f := setupOffersFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateOffer(ctx, f.vendorID, validCreateRequest(f.itemID))
	require.NoError(t, err)

	other := seedVendor(t, f.db, "other@example.com", enums.VendorStatusApproved)
	price := 9.0
	_, err = f.svc.UpdateOffer(ctx, other, created.ID, UpdateOfferRequest{Price: &price})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeactivateOffer(t *testing.T) {
	f := setupOffersFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateOffer(ctx, f.vendorID, validCreateRequest(f.itemID))
	require.NoError(t, err)

	updated, err := f.svc.DeactivateOffer(ctx, f.vendorID, created.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestDeleteOffer_RemovesSelections(t *testing.T) {
	f := setupOffersFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateOffer(ctx, f.vendorID, validCreateRequest(f.itemID))
	require.NoError(t, err)

	selection := models.Selection{
		ID:                 uuid.New(),
		ShoppingListItemID: uuid.New(),
		VendorOfferID:      created.ID,
		TotalPrice:         7.5,
	}
	require.NoError(t, f.db.Create(&selection).Error)

	require.NoError(t, f.svc.DeleteOffer(ctx, f.vendorID, created.ID))

	var offers, selections int64
	require.NoError(t, f.db.Model(&models.VendorOffer{}).Count(&offers).Error)
	require.NoError(t, f.db.Model(&models.Selection{}).Count(&selections).Error)
	assert.Zero(t, offers)
	assert.Zero(t, selections)
}

func TestListOffers(t *testing.T) {
	f := setupOffersFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		item := seedCatalogItem(t, f.db, fmt.Sprintf("Item %d", i))
		_, err := f.svc.CreateOffer(ctx, f.vendorID, validCreateRequest(item))
		require.NoError(t, err)
	}

	listed, err := f.svc.ListOffers(ctx, f.vendorID)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestAnalyzeOfferImage(t *testing.T) {
	f := setupOffersFixture(t)
	ctx := context.Background()
	f.analyzer.report = &vision.QualityReport{OverallQuality: "good"}

	created, err := f.svc.CreateOffer(ctx, f.vendorID, validCreateRequest(f.itemID))
	require.NoError(t, err)

	report, err := f.svc.AnalyzeOfferImage(ctx, f.vendorID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "good", report.OverallQuality)
	assert.Equal(t, 1, f.analyzer.calls)

	var stored models.VendorOffer
	require.NoError(t, f.db.First(&stored, "id = ?", created.ID).Error)
	require.NotEmpty(t, stored.QualityReport)
	var decoded vision.QualityReport
	require.NoError(t, json.Unmarshal(stored.QualityReport, &decoded))
	assert.Equal(t, "good", decoded.OverallQuality)
}

func TestAnalyzeOfferImage_NoImage(t *testing.T) {
	f := setupOffersFixture(t)
	ctx := context.Background()

	req := validCreateRequest(f.itemID)
	req.ImageURL = nil
	created, err := f.svc.CreateOffer(ctx, f.vendorID, req)
	require.NoError(t, err)

	_, err = f.svc.AnalyzeOfferImage(ctx, f.vendorID, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAnalyzeOfferImage_AnalyzerFailureIsDependencyError(t *testing.T) {
	f := setupOffersFixture(t)
	ctx := context.Background()
	f.analyzer.err = fmt.Errorf("upstream timeout")

	created, err := f.svc.CreateOffer(ctx, f.vendorID, validCreateRequest(f.itemID))
	require.NoError(t, err)

	_, err = f.svc.AnalyzeOfferImage(ctx, f.vendorID, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())

	// The offer itself is untouched.
	listed, err := f.svc.ListOffers(ctx, f.vendorID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsActive)
}

func TestReanalyzeImage_AdminBypassesOwnership(t *testing.T) {
	f := setupOffersFixture(t)
	ctx := context.Background()
	f.analyzer.report = &vision.QualityReport{OverallQuality: "fair"}

	created, err := f.svc.CreateOffer(ctx, f.vendorID, validCreateRequest(f.itemID))
	require.NoError(t, err)

	report, err := f.svc.ReanalyzeImage(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "fair", report.OverallQuality)
	assert.Equal(t, 1, f.analyzer.calls)

	_, err = f.svc.ReanalyzeImage(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
