package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/config"
	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	"github.com/aldousari/sooqfresh-backend/pkg/outbox"
	"github.com/aldousari/sooqfresh-backend/pkg/outbox/payloads"
)

// EventDescriptor links an event type to its aggregate, destination topic and
// payload schema.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	Topic          string
	PayloadFactory func() interface{}
}

// ResolvedEvent is a decoded outbox row ready for publishing.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    interface{}
}

// EventRegistry maps each supported event type to its descriptor. A row whose
// type is absent here is malformed and goes straight to the DLQ.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError signals the dispatcher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

// NewNonRetryableError wraps an error to signal no retries.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// NewEventRegistry builds the registry with the configured topic names. Every
// order event currently fans out on the single orders topic; the notifier and
// analytics workers each hold their own subscription on it.
func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	if cfg.OrdersTopic == "" {
		return nil, fmt.Errorf("orders topic is required")
	}

	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}
	reg.register(EventDescriptor{
		EventType:      enums.EventOrderCreated,
		AggregateType:  enums.AggregateOrder,
		Topic:          cfg.OrdersTopic,
		PayloadFactory: func() interface{} { return &payloads.OrderCreatedEvent{} },
	})

	return reg, nil
}

func (r *EventRegistry) register(desc EventDescriptor) {
	if desc.PayloadFactory == nil {
		return
	}
	r.entries[desc.EventType] = desc
}

// Resolve validates an outbox row against its descriptor and decodes the typed
// payload. All failures are non-retryable: a row that cannot be decoded now
// will never decode, so retrying only delays the DLQ.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("no descriptor for event type %s", event.EventType))
	}
	if err := validateRow(desc, event); err != nil {
		return nil, NewNonRetryableError(err)
	}

	envelope, err := decodeEnvelope(event)
	if err != nil {
		return nil, NewNonRetryableError(err)
	}

	payload := desc.PayloadFactory()
	if payload == nil {
		return nil, NewNonRetryableError(fmt.Errorf("nil payload factory for %s", event.EventType))
	}
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
	}, nil
}

func validateRow(desc EventDescriptor, event models.OutboxEvent) error {
	if desc.AggregateType != event.AggregateType {
		return fmt.Errorf("aggregate mismatch: descriptor wants %s, row carries %s", desc.AggregateType, event.AggregateType)
	}
	if event.AggregateID == uuid.Nil {
		return fmt.Errorf("row is missing its aggregate_id")
	}
	return nil
}

func decodeEnvelope(event models.OutboxEvent) (outbox.PayloadEnvelope, error) {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return envelope, fmt.Errorf("decode envelope: %w", err)
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return envelope, fmt.Errorf("envelope for %s carries no data", event.EventType)
	}
	return envelope, nil
}
