package port

import (
	"context"
	"time"
)

const (
	ListingCreatedEvent = "ListingCreatedEvent"
	ListingUpdatedEvent = "ListingUpdatedEvent"
	ListingDeletedEvent = "ListingDeletedEvent"
)

// ListingEvent - событие жизненного цикла объявления для внешних подписчиков.
type ListingEvent struct {
	Type       string
	Version    string
	ListingID  int64
	Name       string
	Activity   string
	Sector     string
	Location   string
	ImageSet   bool
	OccurredAt time.Time
}

// ListingEventsPort - публикация событий. Вызывается после коммита, ошибки не откатывают запись.
type ListingEventsPort interface {
	Publish(ctx context.Context, event ListingEvent) error
}
