package constants

// Обменник событий объявлений
const (
	ListingsExchange     = "listings_exchange"
	ListingsExchangeType = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyListingCreated = "listings.created"
	RoutingKeyListingUpdated = "listings.updated"
	RoutingKeyListingDeleted = "listings.deleted"
)
