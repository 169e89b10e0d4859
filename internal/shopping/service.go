package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
)

// Service exposes buyer shopping list operations. Every call is scoped to the
// calling buyer; lists owned by others read as not found.
type Service interface {
	CreateList(ctx context.Context, buyerID uuid.UUID, req CreateListRequest) (*ListDTO, error)
	GetList(ctx context.Context, buyerID, listID uuid.UUID) (*ListDTO, error)
	ListLists(ctx context.Context, buyerID uuid.UUID) ([]ListDTO, error)
	UpdateList(ctx context.Context, buyerID, listID uuid.UUID, req UpdateListRequest) (*ListDTO, error)
	DeleteList(ctx context.Context, buyerID, listID uuid.UUID) error

	AddItem(ctx context.Context, buyerID, listID uuid.UUID, req AddItemRequest) (*ItemDTO, error)
	UpdateItem(ctx context.Context, buyerID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	RemoveItem(ctx context.Context, buyerID, itemID uuid.UUID) error
}

type catalogLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
}

type service struct {
	repo    *Repository
	catalog catalogLoader
}

// NewService constructs a shopping service instance.
func NewService(repo *Repository, catalog catalogLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shopping repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

func (s *service) CreateList(ctx context.Context, buyerID uuid.UUID, req CreateListRequest) (*ListDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.Validation("name is required")
	}

	list := &models.ShoppingList{
		ID:      uuid.New(),
		BuyerID: buyerID,
		Name:    name,
		Status:  enums.ShoppingListStatusDraft,
	}
	if err := s.repo.CreateList(ctx, list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shopping list")
	}
	return listFromModel(list), nil
}

func (s *service) GetList(ctx context.Context, buyerID, listID uuid.UUID) (*ListDTO, error) {
	list, err := s.loadOwnedList(ctx, buyerID, listID)
	if err != nil {
		return nil, err
	}
	return listFromModel(list), nil
}

func (s *service) ListLists(ctx context.Context, buyerID uuid.UUID) ([]ListDTO, error) {
	lists, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shopping lists")
	}
	dtos := make([]ListDTO, 0, len(lists))
	for i := range lists {
		dtos = append(dtos, *listFromModel(&lists[i]))
	}
	return dtos, nil
}

func (s *service) UpdateList(ctx context.Context, buyerID, listID uuid.UUID, req UpdateListRequest) (*ListDTO, error) {
	list, err := s.loadOwnedDraft(ctx, buyerID, listID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.Validation("name is required")
	}
	list.Name = name

	if err := s.repo.SaveList(ctx, list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shopping list")
	}
	return listFromModel(list), nil
}

func (s *service) DeleteList(ctx context.Context, buyerID, listID uuid.UUID) error {
	if _, err := s.loadOwnedList(ctx, buyerID, listID); err != nil {
		return err
	}
	if err := s.repo.DeleteList(ctx, listID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete shopping list")
	}
	return nil
}

func (s *service) AddItem(ctx context.Context, buyerID, listID uuid.UUID, req AddItemRequest) (*ItemDTO, error) {
	list, err := s.loadOwnedDraft(ctx, buyerID, listID)
	if err != nil {
		return nil, err
	}

	unit, err := enums.ParseUnit(req.Unit)
	if err != nil {
		return nil, pkgerrors.Validation(err.Error())
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.Validation("quantity must be positive")
	}

	catalogItem, err := s.catalog.FindByID(ctx, req.CatalogItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("catalog item")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load catalog item")
	}
	if !catalogItem.IsActive {
		return nil, pkgerrors.NotFound("catalog item")
	}

	item := &models.ShoppingListItem{
		ID:              uuid.New(),
		ShoppingListID:  list.ID,
		CatalogItemID:   catalogItem.ID,
		Quantity:        req.Quantity,
		Unit:            unit,
		PreferredOrigin: normalizeOrigin(req.PreferredOrigin),
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add shopping list item")
	}
	item.CatalogItem = catalogItem
	return itemFromModel(item), nil
}

func (s *service) UpdateItem(ctx context.Context, buyerID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	item, err := s.loadOwnedItem(ctx, buyerID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, pkgerrors.Validation("quantity must be positive")
		}
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		unit, err := enums.ParseUnit(*req.Unit)
		if err != nil {
			return nil, pkgerrors.Validation(err.Error())
		}
		item.Unit = unit
	}
	if req.PreferredOrigin != nil {
		item.PreferredOrigin = normalizeOrigin(req.PreferredOrigin)
	}

	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shopping list item")
	}
	return itemFromModel(item), nil
}

func (s *service) RemoveItem(ctx context.Context, buyerID, itemID uuid.UUID) error {
	if _, err := s.loadOwnedItem(ctx, buyerID, itemID); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove shopping list item")
	}
	return nil
}

func (s *service) loadOwnedList(ctx context.Context, buyerID, listID uuid.UUID) (*models.ShoppingList, error) {
	list, err := s.repo.FindListByID(ctx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("shopping list")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shopping list")
	}
	if list.BuyerID != buyerID {
		return nil, pkgerrors.NotFound("shopping list")
	}
	return list, nil
}

func (s *service) loadOwnedDraft(ctx context.Context, buyerID, listID uuid.UUID) (*models.ShoppingList, error) {
	list, err := s.loadOwnedList(ctx, buyerID, listID)
	if err != nil {
		return nil, err
	}
	if list.Status != enums.ShoppingListStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shopping list is already completed")
	}
	return list, nil
}

// loadOwnedItem resolves an item through its list so ownership and draft
// status are both enforced.
func (s *service) loadOwnedItem(ctx context.Context, buyerID, itemID uuid.UUID) (*models.ShoppingListItem, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("shopping list item")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shopping list item")
	}
	if _, err := s.loadOwnedDraft(ctx, buyerID, item.ShoppingListID); err != nil {
		if pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.NotFound("shopping list item")
		}
		return nil, err
	}
	return item, nil
}

func normalizeOrigin(origin *string) *string {
	if origin == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*origin)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
