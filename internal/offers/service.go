package offers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
	"github.com/aldousari/sooqfresh-backend/pkg/vision"
)

// Service exposes vendor offer management. Every mutation requires the caller
// to be an approved vendor; image quality analysis failures never block the
// listing itself.
type Service interface {
	CreateOffer(ctx context.Context, vendorID uuid.UUID, req CreateOfferRequest) (*OfferDTO, error)
	UpdateOffer(ctx context.Context, vendorID, offerID uuid.UUID, req UpdateOfferRequest) (*OfferDTO, error)
	DeactivateOffer(ctx context.Context, vendorID, offerID uuid.UUID) (*OfferDTO, error)
	DeleteOffer(ctx context.Context, vendorID, offerID uuid.UUID) error
	GetOffer(ctx context.Context, vendorID, offerID uuid.UUID) (*OfferDTO, error)
	ListOffers(ctx context.Context, vendorID uuid.UUID) ([]OfferDTO, error)
	AnalyzeOfferImage(ctx context.Context, vendorID, offerID uuid.UUID) (*vision.QualityReport, error)
	ReanalyzeImage(ctx context.Context, offerID uuid.UUID) (*vision.QualityReport, error)
}

type vendorLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type catalogLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
}

type imageAnalyzer interface {
	AnalyzeProductImage(ctx context.Context, imgURL, productName string) (*vision.QualityReport, error)
}

type service struct {
	repo     *Repository
	vendors  vendorLoader
	catalog  catalogLoader
	analyzer imageAnalyzer
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build an offers service.
type ServiceParams struct {
	Repo       *Repository
	VendorRepo vendorLoader
	Catalog    catalogLoader
	Logger     *logger.Logger

	// Analyzer is optional; without it AnalyzeOfferImage reports a dependency
	// error but listings still work.
	Analyzer imageAnalyzer
}

// NewService constructs an offers service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	if params.VendorRepo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		vendors:  params.VendorRepo,
		catalog:  params.Catalog,
		analyzer: params.Analyzer,
		logg:     params.Logger,
	}, nil
}

func (s *service) CreateOffer(ctx context.Context, vendorID uuid.UUID, req CreateOfferRequest) (*OfferDTO, error) {
	if err := s.requireApprovedVendor(ctx, vendorID); err != nil {
		return nil, err
	}

	unit, err := enums.ParseUnit(req.Unit)
	if err != nil {
		return nil, pkgerrors.Validation(err.Error())
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.Validation("quantity must be positive")
	}
	if req.Price <= 0 {
		return nil, pkgerrors.Validation("price must be positive")
	}
	origin := strings.TrimSpace(req.Origin)
	if origin == "" {
		return nil, pkgerrors.Validation("origin is required")
	}

	item, err := s.catalog.FindByID(ctx, req.CatalogItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("catalog item")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load catalog item")
	}
	if !item.IsActive {
		return nil, pkgerrors.NotFound("catalog item")
	}

	offer := &models.VendorOffer{
		ID:              uuid.New(),
		VendorID:        vendorID,
		CatalogItemID:   item.ID,
		Quantity:        req.Quantity,
		InitialQuantity: req.Quantity,
		Unit:            unit,
		Price:           req.Price,
		Origin:          origin,
		ImageURL:        req.ImageURL,
		IsActive:        true,
	}
	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create offer")
	}
	offer.CatalogItem = item
	return fromModel(offer), nil
}

func (s *service) UpdateOffer(ctx context.Context, vendorID, offerID uuid.UUID, req UpdateOfferRequest) (*OfferDTO, error) {
	offer, err := s.loadOwnedOffer(ctx, vendorID, offerID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, pkgerrors.Validation("quantity cannot be negative")
		}
		offer.Quantity = *req.Quantity
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, pkgerrors.Validation("price must be positive")
		}
		offer.Price = *req.Price
	}
	if req.Origin != nil {
		origin := strings.TrimSpace(*req.Origin)
		if origin == "" {
			return nil, pkgerrors.Validation("origin cannot be empty")
		}
		offer.Origin = origin
	}
	if req.ImageURL != nil {
		offer.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		offer.IsActive = *req.IsActive
	}

	if err := s.repo.Save(ctx, offer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update offer")
	}
	return fromModel(offer), nil
}

// DeactivateOffer hides the offer from matching without deleting its history.
func (s *service) DeactivateOffer(ctx context.Context, vendorID, offerID uuid.UUID) (*OfferDTO, error) {
	inactive := false
	return s.UpdateOffer(ctx, vendorID, offerID, UpdateOfferRequest{IsActive: &inactive})
}

func (s *service) DeleteOffer(ctx context.Context, vendorID, offerID uuid.UUID) error {
	if _, err := s.loadOwnedOffer(ctx, vendorID, offerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, offerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete offer")
	}
	return nil
}

func (s *service) GetOffer(ctx context.Context, vendorID, offerID uuid.UUID) (*OfferDTO, error) {
	offer, err := s.loadOwnedOffer(ctx, vendorID, offerID)
	if err != nil {
		return nil, err
	}
	return fromModel(offer), nil
}

func (s *service) ListOffers(ctx context.Context, vendorID uuid.UUID) ([]OfferDTO, error) {
	offers, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list offers")
	}
	return fromModels(offers), nil
}

// AnalyzeOfferImage runs the external quality analysis on the offer's image
// and stores the report on the offer. Analysis errors surface to the vendor
// but leave the offer untouched.
func (s *service) AnalyzeOfferImage(ctx context.Context, vendorID, offerID uuid.UUID) (*vision.QualityReport, error) {
	offer, err := s.loadOwnedOffer(ctx, vendorID, offerID)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, offer)
}

// ReanalyzeImage is the admin variant: no ownership check, any offer.
func (s *service) ReanalyzeImage(ctx context.Context, offerID uuid.UUID) (*vision.QualityReport, error) {
	offer, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("offer")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offer")
	}
	return s.analyze(ctx, offer)
}

func (s *service) analyze(ctx context.Context, offer *models.VendorOffer) (*vision.QualityReport, error) {
	if offer.ImageURL == nil || *offer.ImageURL == "" {
		return nil, pkgerrors.Validation("offer has no image to analyze")
	}
	if s.analyzer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image analysis is not configured")
	}

	productName := ""
	if offer.CatalogItem != nil {
		productName = offer.CatalogItem.Name
	}
	report, err := s.analyzer.AnalyzeProductImage(ctx, *offer.ImageURL, productName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "analyze image")
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode quality report")
	}
	if err := s.repo.UpdateQualityReport(ctx, offer.ID, raw); err != nil {
		// The report was produced; failing to cache it is not fatal.
		ctx = s.logg.WithField(ctx, "offer_id", offer.ID.String())
		s.logg.Error(ctx, "store quality report failed", err)
	}
	return report, nil
}

func (s *service) requireApprovedVendor(ctx context.Context, vendorID uuid.UUID) error {
	vendor, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NotFound("vendor")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vendor")
	}
	if !vendor.IsApprovedVendor() {
		return pkgerrors.Forbidden("vendor is not approved")
	}
	return nil
}

func (s *service) loadOwnedOffer(ctx context.Context, vendorID, offerID uuid.UUID) (*models.VendorOffer, error) {
	if err := s.requireApprovedVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	offer, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("offer")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offer")
	}
	// Ownership failures read as not-found so vendors cannot probe each
	// other's offer ids.
	if offer.VendorID != vendorID {
		return nil, pkgerrors.NotFound("offer")
	}
	return offer, nil
}
