package vendors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/internal/users"
	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
)

// Service exposes the admin vendor review workflow, per-vendor stats and the
// admin dashboard rollup.
type Service interface {
	List(ctx context.Context, status string) ([]users.UserDTO, error)
	ListPending(ctx context.Context) ([]users.UserDTO, error)
	Get(ctx context.Context, vendorID uuid.UUID) (*users.UserDTO, error)
	Approve(ctx context.Context, vendorID uuid.UUID) (*users.UserDTO, error)
	Reject(ctx context.Context, vendorID uuid.UUID) (*users.UserDTO, error)
	Stats(ctx context.Context, vendorID uuid.UUID) (*StatsDTO, error)
	DashboardStats(ctx context.Context) (*DashboardDTO, error)
}

// StatsDTO summarizes a vendor's marketplace activity.
type StatsDTO struct {
	VendorID     uuid.UUID `json:"vendor_id"`
	ActiveOffers int64     `json:"active_offers"`
	TotalOffers  int64     `json:"total_offers"`
	ItemsSold    int64     `json:"items_sold"`
	Revenue      float64   `json:"revenue"`
}

// DashboardDTO is the admin landing page rollup.
type DashboardDTO struct {
	Buyers          int64   `json:"buyers"`
	VendorsTotal    int64   `json:"vendors_total"`
	VendorsPending  int64   `json:"vendors_pending"`
	VendorsApproved int64   `json:"vendors_approved"`
	CatalogItems    int64   `json:"catalog_items"`
	ActiveOffers    int64   `json:"active_offers"`
	Orders          int64   `json:"orders"`
	Revenue         float64 `json:"revenue"`
	Commission      float64 `json:"commission"`
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListVendors(ctx context.Context, status *enums.VendorStatus) ([]models.User, error)
	UpdateVendorStatus(ctx context.Context, id uuid.UUID, status enums.VendorStatus) error
}

type service struct {
	users userRepository
	db    *gorm.DB
}

// NewService constructs a vendors service instance.
func NewService(userRepo userRepository, db *gorm.DB) (Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{users: userRepo, db: db}, nil
}

// List returns vendors, optionally filtered by review status ("pending",
// "approved", "rejected"; empty means all).
func (s *service) List(ctx context.Context, status string) ([]users.UserDTO, error) {
	var filter *enums.VendorStatus
	if status != "" {
		parsed, err := enums.ParseVendorStatus(status)
		if err != nil {
			return nil, pkgerrors.Validation(err.Error())
		}
		filter = &parsed
	}

	vendors, err := s.users.ListVendors(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendors")
	}
	dtos := make([]users.UserDTO, 0, len(vendors))
	for i := range vendors {
		dtos = append(dtos, *users.FromModel(&vendors[i]))
	}
	return dtos, nil
}

func (s *service) ListPending(ctx context.Context) ([]users.UserDTO, error) {
	return s.List(ctx, enums.VendorStatusPending.String())
}

func (s *service) Get(ctx context.Context, vendorID uuid.UUID) (*users.UserDTO, error) {
	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return users.FromModel(vendor), nil
}

func (s *service) Approve(ctx context.Context, vendorID uuid.UUID) (*users.UserDTO, error) {
	return s.review(ctx, vendorID, enums.VendorStatusApproved)
}

func (s *service) Reject(ctx context.Context, vendorID uuid.UUID) (*users.UserDTO, error) {
	return s.review(ctx, vendorID, enums.VendorStatusRejected)
}

func (s *service) review(ctx context.Context, vendorID uuid.UUID, status enums.VendorStatus) (*users.UserDTO, error) {
	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.VendorStatus != nil && *vendor.VendorStatus == status {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "vendor is already %s", status)
	}

	if err := s.users.UpdateVendorStatus(ctx, vendorID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update vendor status")
	}
	vendor.VendorStatus = &status
	return users.FromModel(vendor), nil
}

func (s *service) Stats(ctx context.Context, vendorID uuid.UUID) (*StatsDTO, error) {
	if _, err := s.loadVendor(ctx, vendorID); err != nil {
		return nil, err
	}

	stats := &StatsDTO{VendorID: vendorID}

	err := s.db.WithContext(ctx).
		Model(&models.VendorOffer{}).
		Where("vendor_id = ?", vendorID).
		Count(&stats.TotalOffers).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count offers")
	}
	err = s.db.WithContext(ctx).
		Model(&models.VendorOffer{}).
		Where("vendor_id = ? AND is_active = ?", vendorID, true).
		Count(&stats.ActiveOffers).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count active offers")
	}

	var sold struct {
		Items   int64
		Revenue float64
	}
	err = s.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("COUNT(*) AS items, COALESCE(SUM(total_price), 0) AS revenue").
		Where("vendor_id = ?", vendorID).
		Scan(&sold).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum order items")
	}
	stats.ItemsSold = sold.Items
	stats.Revenue = sold.Revenue

	return stats, nil
}

// DashboardStats aggregates the marketplace-wide numbers for the admin
// landing page.
func (s *service) DashboardStats(ctx context.Context) (*DashboardDTO, error) {
	stats := &DashboardDTO{}

	userCounts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Buyers, s.db.WithContext(ctx).Model(&models.User{}).
			Where("role = ?", enums.RoleBuyer)},
		{&stats.VendorsTotal, s.db.WithContext(ctx).Model(&models.User{}).
			Where("role = ?", enums.RoleVendor)},
		{&stats.VendorsPending, s.db.WithContext(ctx).Model(&models.User{}).
			Where("role = ? AND vendor_status = ?", enums.RoleVendor, enums.VendorStatusPending)},
		{&stats.VendorsApproved, s.db.WithContext(ctx).Model(&models.User{}).
			Where("role = ? AND vendor_status = ?", enums.RoleVendor, enums.VendorStatusApproved)},
		{&stats.CatalogItems, s.db.WithContext(ctx).Model(&models.CatalogItem{}).
			Where("is_active = ?", true)},
		{&stats.ActiveOffers, s.db.WithContext(ctx).Model(&models.VendorOffer{}).
			Where("is_active = ?", true)},
	}
	for _, count := range userCounts {
		if err := count.query.Count(count.dest).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count dashboard stats")
		}
	}

	var totals struct {
		Orders     int64
		Revenue    float64
		Commission float64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(grand_total), 0) AS revenue, COALESCE(SUM(commission), 0) AS commission").
		Scan(&totals).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum orders")
	}
	stats.Orders = totals.Orders
	stats.Revenue = totals.Revenue
	stats.Commission = totals.Commission

	return stats, nil
}

func (s *service) loadVendor(ctx context.Context, vendorID uuid.UUID) (*models.User, error) {
	vendor, err := s.users.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("vendor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vendor")
	}
	if vendor.Role != enums.RoleVendor {
		return nil, pkgerrors.NotFound("vendor")
	}
	return vendor, nil
}
