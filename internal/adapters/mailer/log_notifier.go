package mailer_adapter

import (
	"context"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/port"
)

// LogNotifier используется, когда SMTP не настроен: уведомление только пишется в лог.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) NotifyNewListing(ctx context.Context, listingName, contactEmail string) error {
	contextkeys.LoggerFromContext(ctx).Warn("SMTP is not configured, notification skipped.", port.Fields{
		"component": "LogNotifier",
		"listing":   listingName,
		"contact":   contactEmail,
	})
	return nil
}
