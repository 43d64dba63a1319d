package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"listings-service/internal/constants"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/port"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultEventVersion = "1.0.0"

type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

type eventValidator interface {
	ValidateEvent(eventType, eventVersion string, body []byte) error
}

// ListingEventsPublisher - реализация ListingEventsPort поверх RabbitMQ.
// Перед отправкой тело проверяется по JSON-схеме события.
type ListingEventsPublisher struct {
	producer  messagePublisher
	validator eventValidator
	timeout   time.Duration
}

func NewListingEventsPublisher(producer messagePublisher, validator eventValidator) (*ListingEventsPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if validator == nil {
		return nil, fmt.Errorf("rabbitmq adapter: schema validator cannot be nil")
	}
	return &ListingEventsPublisher{
		producer:  producer,
		validator: validator,
		timeout:   10 * time.Second,
	}, nil
}

func (a *ListingEventsPublisher) Publish(ctx context.Context, event port.ListingEvent) error {
	routingKey, err := routingKeyFor(event.Type)
	if err != nil {
		return err
	}
	if event.Version == "" {
		event.Version = defaultEventVersion
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	eventID := uuid.NewString()
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ListingEventsPublisher",
		"routing_key": routingKey,
		"event_id":    eventID,
		"listing_id":  event.ListingID,
	})

	body, err := marshalEvent(eventID, event)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal %s: %w", event.Type, err)
	}
	if err := a.validator.ValidateEvent(event.Type, event.Version, body); err != nil {
		adapterLogger.Error("Event does not match its schema", err, nil)
		return fmt.Errorf("rabbitmq adapter: invalid %s: %w", event.Type, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    eventID,
		Type:         event.Type,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Headers:      make(amqp.Table),
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish listing event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish %s: %w", event.Type, err)
	}

	adapterLogger.Info("Listing event published", port.Fields{"event_type": event.Type})
	return nil
}

func routingKeyFor(eventType string) (string, error) {
	switch eventType {
	case port.ListingCreatedEvent:
		return constants.RoutingKeyListingCreated, nil
	case port.ListingUpdatedEvent:
		return constants.RoutingKeyListingUpdated, nil
	case port.ListingDeletedEvent:
		return constants.RoutingKeyListingDeleted, nil
	default:
		return "", fmt.Errorf("rabbitmq adapter: unknown event type %q", eventType)
	}
}

func marshalEvent(eventID string, event port.ListingEvent) ([]byte, error) {
	if event.Type == port.ListingDeletedEvent {
		return json.Marshal(ListingDeletedDTO{
			EventID:      eventID,
			EventType:    event.Type,
			EventVersion: event.Version,
			OccurredAt:   event.OccurredAt,
			ListingID:    event.ListingID,
		})
	}
	return json.Marshal(ListingEventDTO{
		EventID:      eventID,
		EventType:    event.Type,
		EventVersion: event.Version,
		OccurredAt:   event.OccurredAt,
		ListingID:    event.ListingID,
		Name:         event.Name,
		Activity:     event.Activity,
		Sector:       event.Sector,
		Location:     event.Location,
		ImageSet:     event.ImageSet,
	})
}
