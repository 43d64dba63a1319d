package rabbitmq

import "time"

// ListingEventDTO - тело событий ListingCreatedEvent и ListingUpdatedEvent
type ListingEventDTO struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	EventVersion string    `json:"event_version"`
	OccurredAt   time.Time `json:"occurred_at"`
	ListingID    int64     `json:"listing_id"`
	Name         string    `json:"nombre"`
	Activity     string    `json:"actividad"`
	Sector       string    `json:"sector"`
	Location     string    `json:"ubicacion"`
	ImageSet     bool      `json:"con_imagen"`
}

// ListingDeletedDTO - тело события ListingDeletedEvent, без полей объявления
type ListingDeletedDTO struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	EventVersion string    `json:"event_version"`
	OccurredAt   time.Time `json:"occurred_at"`
	ListingID    int64     `json:"listing_id"`
}
