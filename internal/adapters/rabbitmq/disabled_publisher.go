package rabbitmq

import (
	"context"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/port"
)

// DisabledEventsPublisher используется при RABBITMQ_ENABLED=false.
type DisabledEventsPublisher struct{}

func (DisabledEventsPublisher) Publish(ctx context.Context, event port.ListingEvent) error {
	contextkeys.LoggerFromContext(ctx).Debug("Event publishing disabled, event dropped.", port.Fields{
		"event_type": event.Type,
		"listing_id": event.ListingID,
	})
	return nil
}
