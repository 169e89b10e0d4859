package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/aldousari/sooqfresh-backend/pkg/config"
	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
	"github.com/aldousari/sooqfresh-backend/pkg/metrics"
	"github.com/aldousari/sooqfresh-backend/pkg/sms"
)

const (
	defaultSendTimeout = 10 * time.Second
	defaultMaxRetries  = 3
	retryBaseDelay     = 500 * time.Millisecond

	channelSMS      = "sms"
	channelWhatsApp = "whatsapp"
)

// Sender delivers one message over a Twilio channel. Satisfied by *sms.Client.
type Sender interface {
	SendSMS(ctx context.Context, to, body string) error
	SendWhatsApp(ctx context.Context, to, body string) error
}

// Service fans an order out to every vendor with at least one line on it.
type Service interface {
	NotifyOrderCreated(ctx context.Context, orderID uuid.UUID) error
}

// ServiceParams wire the notification dispatcher dependencies.
type ServiceParams struct {
	Repo    *Repository
	Sender  Sender
	Metrics *metrics.NotificationMetrics
	Logger  *logger.Logger
	Notify  config.NotifyConfig
}

type service struct {
	repo        *Repository
	sender      Sender
	metrics     *metrics.NotificationMetrics
	logg        *logger.Logger
	sendTimeout time.Duration
	maxRetries  int
}

// NewService constructs the vendor notification dispatcher.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("message sender required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	sendTimeout := params.Notify.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	maxRetries := params.Notify.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &service{
		repo:        params.Repo,
		sender:      params.Sender,
		metrics:     params.Metrics,
		logg:        params.Logger,
		sendTimeout: sendTimeout,
		maxRetries:  maxRetries,
	}, nil
}

// NotifyOrderCreated sends each vendor a summary of their lines on the order.
// Delivery failures are logged and counted but never returned: one vendor's
// unreachable phone must not block the others or trigger endless redelivery.
// Only data-loading errors propagate so the consumer can retry the event.
func (s *service) NotifyOrderCreated(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.FindOrderWithItems(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	vendorIDs, itemsByVendor := groupItemsByVendor(order.Items)
	vendors, err := s.repo.FindVendors(ctx, vendorIDs)
	if err != nil {
		return fmt.Errorf("load vendors for order %s: %w", orderID, err)
	}

	for _, vendorID := range vendorIDs {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":  order.ID.String(),
			"vendor_id": vendorID.String(),
		})

		vendor, ok := vendors[vendorID]
		if !ok {
			s.logg.Error(logCtx, "vendor missing for order line", fmt.Errorf("vendor %s not found", vendorID))
			continue
		}
		s.notifyVendor(ctx, logCtx, order, &vendor, itemsByVendor[vendorID])
	}
	return nil
}

func (s *service) notifyVendor(ctx, logCtx context.Context, order *models.Order, vendor *models.User, items []models.OrderItem) {
	if vendor.Phone == nil || *vendor.Phone == "" {
		s.logg.Warn(logCtx, "vendor has no phone number, skipping notification")
		return
	}
	phone, err := sms.NormalizePhone(*vendor.Phone)
	if err != nil {
		s.logg.Error(logCtx, "vendor phone number is invalid", err)
		return
	}

	body := buildVendorMessage(order, items)

	var errs error
	for _, channel := range s.channelsFor(vendor) {
		if err := s.deliver(ctx, channel, phone, body); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		s.logg.Error(logCtx, "vendor notification delivery failed", errs)
	}
}

// deliver sends over one channel, retrying transient failures with a bounded
// exponential backoff and a per-attempt timeout.
func (s *service) deliver(ctx context.Context, channel string, phone, body string) error {
	send := s.sender.SendSMS
	if channel == channelWhatsApp {
		send = s.sender.SendWhatsApp
	}

	start := time.Now()
	backoff := retry.WithMaxRetries(uint64(s.maxRetries), retry.NewFibonacci(retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
		defer cancel()
		if err := send(attemptCtx, phone, body); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	s.metrics.ObserveSend(channel, time.Since(start))

	if err != nil {
		s.metrics.IncFailed(channel)
		return fmt.Errorf("%s to %s: %w", channel, phone, err)
	}
	s.metrics.IncSent(channel)
	return nil
}

func (s *service) channelsFor(vendor *models.User) []string {
	pref := enums.NotificationPreferenceSMS
	if vendor.NotificationPreference != nil {
		pref = *vendor.NotificationPreference
	}
	switch pref {
	case enums.NotificationPreferenceWhatsApp:
		return []string{channelWhatsApp}
	case enums.NotificationPreferenceBoth:
		return []string{channelSMS, channelWhatsApp}
	default:
		return []string{channelSMS}
	}
}

// groupItemsByVendor splits order lines per vendor, preserving line order and
// the order vendors first appear in.
func groupItemsByVendor(items []models.OrderItem) ([]uuid.UUID, map[uuid.UUID][]models.OrderItem) {
	var vendorIDs []uuid.UUID
	byVendor := make(map[uuid.UUID][]models.OrderItem)
	for _, item := range items {
		if _, seen := byVendor[item.VendorID]; !seen {
			vendorIDs = append(vendorIDs, item.VendorID)
		}
		byVendor[item.VendorID] = append(byVendor[item.VendorID], item)
	}
	return vendorIDs, byVendor
}
