package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/outbox"
	"github.com/aldousari/sooqfresh-backend/pkg/outbox/payloads"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type fakeOutbox struct {
	events []outbox.DomainEvent
	err    error
}

func (f *fakeOutbox) Emit(_ context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if f.err != nil {
		return f.err
	}
	if tx == nil {
		panic("emit outside transaction")
	}
	f.events = append(f.events, event)
	return nil
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE orders (
			id TEXT PRIMARY KEY,
			buyer_id TEXT NOT NULL,
			shopping_list_id TEXT NOT NULL,
			subtotal REAL NOT NULL,
			commission REAL NOT NULL,
			grand_total REAL NOT NULL,
			created_at DATETIME
		)`,
		`CREATE TABLE order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			vendor_id TEXT NOT NULL,
			vendor_offer_id TEXT NOT NULL,
			catalog_item_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			origin TEXT NOT NULL,
			quantity REAL NOT NULL,
			unit TEXT NOT NULL,
			unit_price REAL NOT NULL,
			total_price REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type checkoutFixture struct {
	svc     Service
	db      *gorm.DB
	outbox  *fakeOutbox
	buyerID uuid.UUID
	listID  uuid.UUID
}

func setupCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	db := setupCheckoutTestDB(t)

	sink := &fakeOutbox{}
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(db),
		TxRunner: testTxRunner{db: db},
		Outbox:   sink,
	})
	require.NoError(t, err)

	buyerID := uuid.New()
	list := models.ShoppingList{
		ID: uuid.New(), BuyerID: buyerID, Name: "Weekly", Status: enums.ShoppingListStatusDraft,
	}
	require.NoError(t, db.Create(&list).Error)

	return &checkoutFixture{svc: svc, db: db, outbox: sink, buyerID: buyerID, listID: list.ID}
}

// addSelectedItem seeds one list item selected against a fresh offer and
// returns the vendor id.
func (f *checkoutFixture) addSelectedItem(t *testing.T, name string, qty float64, unit enums.Unit, offerPrice float64, offerUnit enums.Unit) uuid.UUID {
	t.Helper()

	item := models.CatalogItem{
		ID: uuid.New(), Name: name, Category: enums.ProduceCategoryFruit, IsActive: true,
	}
	require.NoError(t, f.db.Create(&item).Error)

	vendorID := uuid.New()
	status := enums.VendorStatusApproved
	require.NoError(t, f.db.Create(&models.User{
		ID:           vendorID,
		Email:        fmt.Sprintf("%s@vendor.test", vendorID),
		PasswordHash: "x",
		Name:         "Vendor " + name,
		Role:         enums.RoleVendor,
		IsActive:     true,
		VendorStatus: &status,
	}).Error)
	offer := models.VendorOffer{
		ID:              uuid.New(),
		VendorID:        vendorID,
		CatalogItemID:   item.ID,
		Quantity:        1000,
		InitialQuantity: 1000,
		Unit:            offerUnit,
		Price:           offerPrice,
		Origin:          "Spain",
		IsActive:        true,
	}
	require.NoError(t, f.db.Create(&offer).Error)

	listItem := models.ShoppingListItem{
		ID:             uuid.New(),
		ShoppingListID: f.listID,
		CatalogItemID:  item.ID,
		Quantity:       qty,
		Unit:           unit,
	}
	require.NoError(t, f.db.Create(&listItem).Error)

	require.NoError(t, f.db.Create(&models.Selection{
		ID:                 uuid.New(),
		ShoppingListItemID: listItem.ID,
		VendorOfferID:      offer.ID,
		TotalPrice:         0,
	}).Error)

	return vendorID
}

// addUnselectedItem seeds a list item with no selection.
func (f *checkoutFixture) addUnselectedItem(t *testing.T, name string) {
	t.Helper()
	item := models.CatalogItem{
		ID: uuid.New(), Name: name, Category: enums.ProduceCategoryFruit, IsActive: true,
	}
	require.NoError(t, f.db.Create(&item).Error)
	require.NoError(t, f.db.Create(&models.ShoppingListItem{
		ID:             uuid.New(),
		ShoppingListID: f.listID,
		CatalogItemID:  item.ID,
		Quantity:       1,
		Unit:           enums.UnitKilogram,
	}).Error)
}

func TestPreview(t *testing.T) {
	f := setupCheckoutFixture(t)
	ctx := context.Background()

	// 2 kg at 1.00/kg plus 500 g at 2.00/kg.
	f.addSelectedItem(t, "Apple", 2, enums.UnitKilogram, 1.00, enums.UnitKilogram)
	f.addSelectedItem(t, "Banana", 500, enums.UnitGram, 2.00, enums.UnitKilogram)

	preview, err := f.svc.Preview(ctx, f.buyerID, f.listID)
	require.NoError(t, err)
	require.Len(t, preview.Lines, 2)
	assert.InDelta(t, 3.00, preview.Subtotal, 1e-9)
	assert.InDelta(t, 0.15, preview.PlatformCommission, 1e-9)
	assert.InDelta(t, 3.15, preview.GrandTotal, 1e-9)

	// Banana line: unit price expressed per gram, the buyer's unit.
	assert.InDelta(t, 0.00, preview.Lines[1].UnitPrice, 1e-9)
	assert.InDelta(t, 1.00, preview.Lines[1].TotalPrice, 1e-9)
}

func TestPreview_MissingSelectionNamesProduct(t *testing.T) {
	f := setupCheckoutFixture(t)

	f.addSelectedItem(t, "Apple", 2, enums.UnitKilogram, 1.00, enums.UnitKilogram)
	f.addUnselectedItem(t, "Banana")

	_, err := f.svc.Preview(context.Background(), f.buyerID, f.listID)
	require.Error(t, err)
	perr := pkgerrors.As(err)
	require.NotNil(t, perr)
	assert.Equal(t, pkgerrors.CodeValidation, perr.Code())
	assert.Contains(t, perr.Message(), "Banana")
}

func TestPreview_EmptyList(t *testing.T) {
	f := setupCheckoutFixture(t)

	_, err := f.svc.Preview(context.Background(), f.buyerID, f.listID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestConfirm(t *testing.T) {
	f := setupCheckoutFixture(t)
	ctx := context.Background()

	vendorA := f.addSelectedItem(t, "Apple", 2, enums.UnitKilogram, 1.00, enums.UnitKilogram)
	vendorB := f.addSelectedItem(t, "Banana", 500, enums.UnitGram, 2.00, enums.UnitKilogram)

	order, err := f.svc.Confirm(ctx, f.buyerID, f.listID)
	require.NoError(t, err)
	assert.InDelta(t, 3.00, order.Subtotal, 1e-9)
	assert.InDelta(t, 0.15, order.PlatformCommission, 1e-9)
	assert.InDelta(t, 3.15, order.GrandTotal, 1e-9)
	require.Len(t, order.Items, 2)
	assert.Equal(t, enums.OrderItemStatusPending, order.Items[0].Status)
	assert.Len(t, order.ShortID, 8)

	// The list is now completed.
	var list models.ShoppingList
	require.NoError(t, f.db.First(&list, "id = ?", f.listID).Error)
	assert.Equal(t, enums.ShoppingListStatusCompleted, list.Status)

	// One order event, carrying both vendors.
	require.Len(t, f.outbox.events, 1)
	event := f.outbox.events[0]
	assert.Equal(t, enums.EventOrderCreated, event.EventType)
	payload, ok := event.Data.(payloads.OrderCreatedEvent)
	require.True(t, ok)
	assert.ElementsMatch(t, []uuid.UUID{vendorA, vendorB}, payload.VendorIDs)
	assert.Equal(t, order.ID, payload.OrderID)
}

func TestConfirm_MissingSelectionCreatesNothing(t *testing.T) {
	f := setupCheckoutFixture(t)

	f.addUnselectedItem(t, "Apple")

	_, err := f.svc.Confirm(context.Background(), f.buyerID, f.listID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var list models.ShoppingList
	require.NoError(t, f.db.First(&list, "id = ?", f.listID).Error)
	assert.Equal(t, enums.ShoppingListStatusDraft, list.Status)
	assert.Empty(t, f.outbox.events)
}

func TestConfirm_LeavesOfferStockUntouched(t *testing.T) {
	f := setupCheckoutFixture(t)
	ctx := context.Background()

	f.addSelectedItem(t, "Apple", 2, enums.UnitKilogram, 1.00, enums.UnitKilogram)

	var before models.VendorOffer
	require.NoError(t, f.db.First(&before).Error)

	_, err := f.svc.Confirm(ctx, f.buyerID, f.listID)
	require.NoError(t, err)

	// Vendors manage their own quantities; confirm only records the order.
	var after models.VendorOffer
	require.NoError(t, f.db.First(&after, "id = ?", before.ID).Error)
	assert.InDelta(t, before.Quantity, after.Quantity, 1e-9)
	assert.True(t, after.IsActive)
}

func TestConfirm_SecondAttemptFails(t *testing.T) {
	f := setupCheckoutFixture(t)
	ctx := context.Background()

	f.addSelectedItem(t, "Apple", 2, enums.UnitKilogram, 1.00, enums.UnitKilogram)

	_, err := f.svc.Confirm(ctx, f.buyerID, f.listID)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, f.buyerID, f.listID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(1), orders)
}

func TestConfirm_OutboxFailureRollsBack(t *testing.T) {
	f := setupCheckoutFixture(t)
	ctx := context.Background()

	f.addSelectedItem(t, "Apple", 2, enums.UnitKilogram, 1.00, enums.UnitKilogram)
	f.outbox.err = assert.AnError

	_, err := f.svc.Confirm(ctx, f.buyerID, f.listID)
	require.Error(t, err)

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var list models.ShoppingList
	require.NoError(t, f.db.First(&list, "id = ?", f.listID).Error)
	assert.Equal(t, enums.ShoppingListStatusDraft, list.Status)
}

func TestConfirm_RevokedVendorBlocked(t *testing.T) {
	f := setupCheckoutFixture(t)
	ctx := context.Background()

	vendorID := f.addSelectedItem(t, "Apple", 2, enums.UnitKilogram, 1.00, enums.UnitKilogram)
	require.NoError(t, f.db.Model(&models.User{}).
		Where("id = ?", vendorID).
		Update("vendor_status", enums.VendorStatusRejected).Error)

	_, err := f.svc.Confirm(ctx, f.buyerID, f.listID)
	require.Error(t, err)
	perr := pkgerrors.As(err)
	require.NotNil(t, perr)
	assert.Equal(t, pkgerrors.CodeStateConflict, perr.Code())
	assert.Contains(t, perr.Message(), "Apple")

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
	assert.Empty(t, f.outbox.events)
}

func TestConfirm_OtherBuyerReadsNotFound(t *testing.T) {
	f := setupCheckoutFixture(t)

	f.addSelectedItem(t, "Apple", 2, enums.UnitKilogram, 1.00, enums.UnitKilogram)

	_, err := f.svc.Confirm(context.Background(), uuid.New(), f.listID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
