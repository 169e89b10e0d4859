package catalog

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

// Service exposes catalog management and browsing operations. Mutations are
// admin-only; listing is public.
type Service interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context, input ListItemsInput) ([]ItemDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.Validation("name is required")
	}
	category, err := enums.ParseProduceCategory(req.Category)
	if err != nil {
		return nil, pkgerrors.Validation(err.Error())
	}

	exists, err := s.repo.NameExists(ctx, name, uuid.Nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check name")
	}
	if exists {
		return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "catalog item %q already exists", name)
	}

	item := &models.CatalogItem{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		ImageURL: req.ImageURL,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create catalog item")
	}
	return fromModel(item), nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.Validation("name cannot be empty")
		}
		exists, err := s.repo.NameExists(ctx, name, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check name")
		}
		if exists {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "catalog item %q already exists", name)
		}
		item.Name = name
	}
	if req.Category != nil {
		category, err := enums.ParseProduceCategory(*req.Category)
		if err != nil {
			return nil, pkgerrors.Validation(err.Error())
		}
		item.Category = category
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update catalog item")
	}
	return fromModel(item), nil
}

// DeleteItem removes a catalog entry. Items that vendor offers still reference
// cannot be deleted; deactivate them instead.
func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadItem(ctx, id); err != nil {
		return err
	}

	offers, err := s.repo.CountOffers(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count offers")
	}
	if offers > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "catalog item has vendor offers; deactivate it instead")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete catalog item")
	}
	return nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromModel(item), nil
}

func (s *service) ListItems(ctx context.Context, input ListItemsInput) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list catalog items")
	}
	return fromModels(items), nil
}

func (s *service) loadItem(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("catalog item")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load catalog item")
	}
	return item, nil
}
