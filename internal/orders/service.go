package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/pagination"
)

// Service exposes order history for buyers and fulfillment for vendors.
// Orders are immutable; only the per-item fulfillment status moves, forward
// only, by the owning vendor.
type Service interface {
	GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, buyerID uuid.UUID, page, limit int) (*ListResult, error)
	ListVendorItems(ctx context.Context, vendorID uuid.UUID) ([]VendorItemDTO, error)
	AdvanceItem(ctx context.Context, vendorID, itemID uuid.UUID, req AdvanceItemRequest) (*OrderItemDTO, error)
	AdminGetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	AdminListOrders(ctx context.Context, page, limit int) (*ListResult, error)
	CommissionSummary(ctx context.Context) (*CommissionSummaryDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs an orders service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.BuyerID != buyerID {
		return nil, pkgerrors.NotFound("order")
	}
	return orderFromModel(order), nil
}

func (s *service) ListOrders(ctx context.Context, buyerID uuid.UUID, page, limit int) (*ListResult, error) {
	page = pagination.NormalizePage(page)
	limit = pagination.NormalizeLimit(limit)

	orders, total, err := s.repo.ListByBuyer(ctx, buyerID, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	result := &ListResult{
		Orders: make([]OrderDTO, 0, len(orders)),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
	for i := range orders {
		result.Orders = append(result.Orders, *orderFromModel(&orders[i]))
	}
	return result, nil
}

// AdminGetOrder loads any order regardless of its buyer.
func (s *service) AdminGetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return orderFromModel(order), nil
}

// AdminListOrders pages through every order on the platform, newest first.
func (s *service) AdminListOrders(ctx context.Context, page, limit int) (*ListResult, error) {
	page = pagination.NormalizePage(page)
	limit = pagination.NormalizeLimit(limit)

	orders, total, err := s.repo.ListAll(ctx, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	result := &ListResult{
		Orders: make([]OrderDTO, 0, len(orders)),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
	for i := range orders {
		result.Orders = append(result.Orders, *orderFromModel(&orders[i]))
	}
	return result, nil
}

// CommissionSummary totals the platform's 5% take across all orders.
func (s *service) CommissionSummary(ctx context.Context) (*CommissionSummaryDTO, error) {
	summary, err := s.repo.CommissionTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum commission")
	}
	return summary, nil
}

func (s *service) ListVendorItems(ctx context.Context, vendorID uuid.UUID) ([]VendorItemDTO, error) {
	items, err := s.repo.ListItemsByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendor items")
	}

	dtos := make([]VendorItemDTO, 0, len(items))
	for i := range items {
		dto := VendorItemDTO{OrderItemDTO: *itemFromModel(&items[i])}
		dto.OrderShortID = shortID(items[i].OrderID)
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// AdvanceItem moves the item's fulfillment status forward. Backward and
// repeated transitions are rejected.
func (s *service) AdvanceItem(ctx context.Context, vendorID, itemID uuid.UUID, req AdvanceItemRequest) (*OrderItemDTO, error) {
	next, err := enums.ParseOrderItemStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.Validation(err.Error())
	}

	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("order item")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order item")
	}
	if item.VendorID != vendorID {
		return nil, pkgerrors.NotFound("order item")
	}
	if !item.Status.CanAdvanceTo(next) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"cannot move item from %s to %s", item.Status, next)
	}

	if err := s.repo.UpdateItemStatus(ctx, item.ID, next.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item status")
	}
	item.Status = next
	return itemFromModel(item), nil
}

func shortID(id uuid.UUID) string {
	s := id.String()
	if len(s) < 8 {
		return s
	}
	return s[:8]
}
