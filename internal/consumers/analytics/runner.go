package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
	"github.com/aldousari/sooqfresh-backend/pkg/outbox"
)

// Runner pumps marketplace events from Pub/Sub into the Consumer.
type Runner struct {
	subscription *pubsub.Subscriber
	consumer     *Consumer
	logg         *logger.Logger
}

func NewRunner(subscription *pubsub.Subscriber, consumer *Consumer, logg *logger.Logger) (*Runner, error) {
	if subscription == nil {
		return nil, fmt.Errorf("analytics subscription required")
	}
	if consumer == nil {
		return nil, fmt.Errorf("analytics consumer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Runner{
		subscription: subscription,
		consumer:     consumer,
		logg:         logg,
	}, nil
}

// Run receives until the context is canceled. Malformed messages are acked so
// they don't wedge the subscription; ingest failures are nacked for redelivery.
func (r *Runner) Run(ctx context.Context) error {
	return r.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		eventType := enums.OutboxEventType(msg.Attributes["event_type"])
		logCtx := r.logg.WithFields(ctx, map[string]any{
			"message_id": msg.ID,
			"event_type": eventType,
		})

		var envelope outbox.PayloadEnvelope
		if err := json.Unmarshal(msg.Data, &envelope); err != nil {
			r.logg.Error(logCtx, "failed to decode envelope", err)
			msg.Ack()
			return
		}

		if err := r.consumer.Process(ctx, eventType, envelope); err != nil {
			r.logg.Error(logCtx, "marketplace event ingest failed", err)
			msg.Nack()
			return
		}
		msg.Ack()
	})
}
