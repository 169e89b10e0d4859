package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/internal/pricing"
	pkgcheckout "github.com/aldousari/sooqfresh-backend/pkg/checkout"
	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/outbox"
	"github.com/aldousari/sooqfresh-backend/pkg/outbox/payloads"
	"github.com/aldousari/sooqfresh-backend/pkg/visibility"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service executes checkout: preview totals for a draft list, then confirm it
// into an immutable order.
type Service interface {
	Preview(ctx context.Context, buyerID, listID uuid.UUID) (*PreviewDTO, error)
	Confirm(ctx context.Context, buyerID, listID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo   *Repository
	tx     txRunner
	outbox outboxPublisher
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Repo     *Repository
	TxRunner txRunner
	Outbox   outboxPublisher
}

// NewService constructs a checkout service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: params.Repo, tx: params.TxRunner, outbox: params.Outbox}, nil
}

// Preview prices the draft list without mutating anything.
func (s *service) Preview(ctx context.Context, buyerID, listID uuid.UUID) (*PreviewDTO, error) {
	list, err := s.loadDraft(ctx, nil, buyerID, listID)
	if err != nil {
		return nil, err
	}
	quote, err := buildQuote(list)
	if err != nil {
		return nil, err
	}

	preview := &PreviewDTO{
		ShoppingListID:     list.ID,
		Lines:              make([]LineDTO, 0, len(quote.Lines)),
		Subtotal:           pricing.Round2(quote.Subtotal),
		PlatformCommission: pricing.Round2(quote.Commission),
		GrandTotal:         pricing.Round2(quote.GrandTotal),
	}
	for _, line := range quote.Lines {
		preview.Lines = append(preview.Lines, LineDTO{
			ItemID:        line.ItemID,
			VendorOfferID: line.OfferID,
			VendorID:      line.VendorID,
			ProductName:   line.ProductName,
			Origin:        line.Origin,
			Quantity:      line.Quantity,
			Unit:          line.Unit,
			UnitPrice:     pricing.Round2(line.UnitPrice),
			TotalPrice:    pricing.Round2(line.TotalPrice),
		})
	}
	return preview, nil
}

// Confirm creates the order and completes the list in one transaction. The
// draft check and the completed transition guard the same race: two
// concurrent confirms cannot both create an order.
func (s *service) Confirm(ctx context.Context, buyerID, listID uuid.UUID) (*OrderDTO, error) {
	var order *models.Order

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		list, err := s.loadDraft(ctx, tx, buyerID, listID)
		if err != nil {
			return err
		}
		quote, err := buildQuote(list)
		if err != nil {
			return err
		}

		order = &models.Order{
			ID:             uuid.New(),
			BuyerID:        buyerID,
			ShoppingListID: list.ID,
			Subtotal:       pricing.Round2(quote.Subtotal),
			Commission:     pricing.Round2(quote.Commission),
			GrandTotal:     pricing.Round2(quote.GrandTotal),
			Items:          make([]models.OrderItem, 0, len(quote.Lines)),
		}
		for _, line := range quote.Lines {
			order.Items = append(order.Items, models.OrderItem{
				ID:            uuid.New(),
				OrderID:       order.ID,
				VendorID:      line.VendorID,
				VendorOfferID: line.OfferID,
				CatalogItemID: line.CatalogItemID,
				ProductName:   line.ProductName,
				Origin:        line.Origin,
				Quantity:      line.Quantity,
				Unit:          line.Unit,
				UnitPrice:     pricing.Round2(line.UnitPrice),
				TotalPrice:    pricing.Round2(line.TotalPrice),
				Status:        enums.OrderItemStatusPending,
			})
		}

		completed, err := s.repo.CompleteList(ctx, tx, list.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete shopping list")
		}
		if !completed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "shopping list is already completed")
		}

		if err := s.repo.CreateOrder(ctx, tx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: buyerID, Role: enums.RoleBuyer.String()},
			Data: payloads.OrderCreatedEvent{
				OrderID:        order.ID,
				BuyerID:        buyerID,
				ShoppingListID: list.ID,
				VendorIDs:      vendorIDs(order.Items),
				GrandTotal:     order.GrandTotal,
				CreatedAt:      time.Now().UTC(),
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}
	return orderToDTO(order), nil
}

func (s *service) loadDraft(ctx context.Context, tx *gorm.DB, buyerID, listID uuid.UUID) (*models.ShoppingList, error) {
	list, err := s.repo.FindListForCheckout(ctx, tx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("shopping list")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shopping list")
	}
	if list.BuyerID != buyerID {
		return nil, pkgerrors.NotFound("shopping list")
	}
	if list.Status != enums.ShoppingListStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shopping list is already completed")
	}
	return list, nil
}

// buildQuote validates that every item carries a selection backed by an offer
// and prices the lines.
func buildQuote(list *models.ShoppingList) (*pricing.Quote, error) {
	inputs := make([]pkgcheckout.SelectionValidationInput, 0, len(list.Items))
	for i := range list.Items {
		item := &list.Items[i]
		input := pkgcheckout.SelectionValidationInput{
			ItemID:   item.ID,
			HasOffer: item.Selection != nil && item.Selection.VendorOffer != nil,
		}
		if item.CatalogItem != nil {
			input.ProductName = item.CatalogItem.Name
		}
		inputs = append(inputs, input)
	}
	if err := pkgcheckout.ValidateSelections(inputs); err != nil {
		return nil, err
	}

	lines := make([]pricing.SelectedLine, 0, len(list.Items))
	for i := range list.Items {
		item := &list.Items[i]
		offer := item.Selection.VendorOffer
		if err := visibility.EnsureVendorVisible(offer.Vendor); err != nil {
			productName := ""
			if item.CatalogItem != nil {
				productName = item.CatalogItem.Name
			}
			// Vendor was approved at selection time but isn't anymore.
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("vendor for %q is no longer available, reselect an offer", productName))
		}
		line := pricing.SelectedLine{
			ItemID:        item.ID,
			OfferID:       offer.ID,
			VendorID:      offer.VendorID,
			CatalogItemID: item.CatalogItemID,
			Origin:        offer.Origin,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			OfferPrice:    offer.Price,
			OfferUnit:     offer.Unit,
		}
		if item.CatalogItem != nil {
			line.ProductName = item.CatalogItem.Name
		}
		lines = append(lines, line)
	}

	quote := pricing.BuildQuote(lines)
	return &quote, nil
}

func vendorIDs(items []models.OrderItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.VendorID]; ok {
			continue
		}
		seen[item.VendorID] = struct{}{}
		ids = append(ids, item.VendorID)
	}
	return ids
}

func orderToDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:                 order.ID,
		ShortID:            order.ShortID(),
		BuyerID:            order.BuyerID,
		ShoppingListID:     order.ShoppingListID,
		Subtotal:           order.Subtotal,
		PlatformCommission: order.Commission,
		GrandTotal:         order.GrandTotal,
		Items:              make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:          order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:          item.ID,
			VendorID:    item.VendorID,
			ProductName: item.ProductName,
			Origin:      item.Origin,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
			Status:      item.Status,
		})
	}
	return dto
}
