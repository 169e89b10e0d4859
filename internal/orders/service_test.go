package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
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

func newOrdersService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupOrdersTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func seedOrder(t *testing.T, db *gorm.DB, buyerID, vendorID uuid.UUID, createdAt time.Time) *models.Order {
	t.Helper()
	order := models.Order{
		ID:             uuid.New(),
		BuyerID:        buyerID,
		ShoppingListID: uuid.New(),
		Subtotal:       2.00,
		Commission:     0.10,
		GrandTotal:     2.10,
		CreatedAt:      createdAt,
		Items: []models.OrderItem{{
			ID:            uuid.New(),
			VendorID:      vendorID,
			VendorOfferID: uuid.New(),
			CatalogItemID: uuid.New(),
			ProductName:   "Apple",
			Origin:        "Spain",
			Quantity:      2,
			Unit:          enums.UnitKilogram,
			UnitPrice:     1.00,
			TotalPrice:    2.00,
			Status:        enums.OrderItemStatusPending,
		}},
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func TestGetOrder(t *testing.T) {
	svc, db := newOrdersService(t)
	buyerID := uuid.New()
	seeded := seedOrder(t, db, buyerID, uuid.New(), time.Now().UTC())

	order, err := svc.GetOrder(context.Background(), buyerID, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, order.ID)
	assert.Equal(t, seeded.ID.String()[:8], order.ShortID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Apple", order.Items[0].ProductName)
}

func TestGetOrder_OtherBuyerReadsNotFound(t *testing.T) {
	svc, db := newOrdersService(t)
	seeded := seedOrder(t, db, uuid.New(), uuid.New(), time.Now().UTC())

	_, err := svc.GetOrder(context.Background(), uuid.New(), seeded.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListOrders_PaginatesNewestFirst(t *testing.T) {
	svc, db := newOrdersService(t)
	buyerID := uuid.New()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var newest uuid.UUID
	for i := 0; i < 5; i++ {
		order := seedOrder(t, db, buyerID, uuid.New(), base.Add(time.Duration(i)*time.Hour))
		newest = order.ID
	}

	page1, err := svc.ListOrders(context.Background(), buyerID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page1.Total)
	require.Len(t, page1.Orders, 2)
	assert.Equal(t, newest, page1.Orders[0].ID)

	page3, err := svc.ListOrders(context.Background(), buyerID, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3.Orders, 1)
}

func TestListOrders_DefaultsAndCaps(t *testing.T) {
	svc, db := newOrdersService(t)
	buyerID := uuid.New()
	seedOrder(t, db, buyerID, uuid.New(), time.Now().UTC())

	result, err := svc.ListOrders(context.Background(), buyerID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, pagination.DefaultLimit, result.Limit)

	capped, err := svc.ListOrders(context.Background(), buyerID, 1, 10_000)
	require.NoError(t, err)
	assert.Equal(t, pagination.MaxLimit, capped.Limit)
}

func TestListVendorItems(t *testing.T) {
	svc, db := newOrdersService(t)
	vendorID := uuid.New()

	order := seedOrder(t, db, uuid.New(), vendorID, time.Now().UTC())
	seedOrder(t, db, uuid.New(), uuid.New(), time.Now().UTC())

	items, err := svc.ListVendorItems(context.Background(), vendorID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, order.ID.String()[:8], items[0].OrderShortID)
}

func TestAdvanceItem(t *testing.T) {
	svc, db := newOrdersService(t)
	vendorID := uuid.New()
	order := seedOrder(t, db, uuid.New(), vendorID, time.Now().UTC())
	itemID := order.Items[0].ID
	ctx := context.Background()

	for _, status := range []string{"preparing", "ready", "completed"} {
		updated, err := svc.AdvanceItem(ctx, vendorID, itemID, AdvanceItemRequest{Status: status})
		require.NoError(t, err, "advance to %s", status)
		assert.Equal(t, status, updated.Status.String())
	}
}

func TestAdvanceItem_BackwardRejected(t *testing.T) {
	svc, db := newOrdersService(t)
	vendorID := uuid.New()
	order := seedOrder(t, db, uuid.New(), vendorID, time.Now().UTC())
	itemID := order.Items[0].ID
	ctx := context.Background()

	_, err := svc.AdvanceItem(ctx, vendorID, itemID, AdvanceItemRequest{Status: "ready"})
	require.NoError(t, err)

	_, err = svc.AdvanceItem(ctx, vendorID, itemID, AdvanceItemRequest{Status: "preparing"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	_, err = svc.AdvanceItem(ctx, vendorID, itemID, AdvanceItemRequest{Status: "ready"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestAdvanceItem_OtherVendorReadsNotFound(t *testing.T) {
	svc, db := newOrdersService(t)
	order := seedOrder(t, db, uuid.New(), uuid.New(), time.Now().UTC())

	_, err := svc.AdvanceItem(context.Background(), uuid.New(), order.Items[0].ID,
		AdvanceItemRequest{Status: "preparing"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAdvanceItem_InvalidStatus(t *testing.T) {
	svc, db := newOrdersService(t)
	vendorID := uuid.New()
	order := seedOrder(t, db, uuid.New(), vendorID, time.Now().UTC())

	_, err := svc.AdvanceItem(context.Background(), vendorID, order.Items[0].ID,
		AdvanceItemRequest{Status: fmt.Sprintf("status-%d", 42)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAdminListOrders_SpansBuyers(t *testing.T) {
	svc, db := newOrdersService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedOrder(t, db, uuid.New(), uuid.New(), base)
	newest := seedOrder(t, db, uuid.New(), uuid.New(), base.Add(time.Hour))

	result, err := svc.AdminListOrders(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	require.Len(t, result.Orders, 2)
	assert.Equal(t, newest.ID, result.Orders[0].ID)
}

func TestAdminGetOrder_IgnoresOwnership(t *testing.T) {
	svc, db := newOrdersService(t)
	seeded := seedOrder(t, db, uuid.New(), uuid.New(), time.Now().UTC())

	order, err := svc.AdminGetOrder(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, order.ID)

	_, err = svc.AdminGetOrder(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCommissionSummary(t *testing.T) {
	svc, db := newOrdersService(t)

	summary, err := svc.CommissionSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.OrderCount)
	assert.Zero(t, summary.Commission)

	seedOrder(t, db, uuid.New(), uuid.New(), time.Now().UTC())
	seedOrder(t, db, uuid.New(), uuid.New(), time.Now().UTC())

	summary, err = svc.CommissionSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.OrderCount)
	assert.InDelta(t, 4.00, summary.Subtotal, 1e-9)
	assert.InDelta(t, 0.20, summary.Commission, 1e-9)
	assert.InDelta(t, 4.20, summary.GrandTotal, 1e-9)
}
