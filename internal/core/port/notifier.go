package port

import "context"

// NotifierPort - отправка уведомления о новом объявлении.
type NotifierPort interface {
	NotifyNewListing(ctx context.Context, listingName, contactEmail string) error
}
