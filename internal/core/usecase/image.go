package usecase

import (
	"context"
	"errors"
	"fmt"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
)

// storeImage сохраняет загруженное изображение и возвращает имя для колонки imagen.
// Файл с недопустимым расширением не ошибка: объявление просто остается без изображения.
func storeImage(ctx context.Context, storage port.ImageStoragePort, policy *domain.ImagePolicy,
	image *domain.ImageUpload, logger port.LoggerPort) (name string, rejected bool, err error) {
	if image == nil || image.Filename == "" {
		return "", false, nil
	}

	if !policy.Accepts(image.Filename) {
		logger.Warn("Image rejected by extension, continuing without image", port.Fields{"filename": image.Filename})
		return "", true, nil
	}

	name = domain.SecureFilename(image.Filename)
	if name == "" {
		logger.Warn("Image filename is empty after sanitizing, continuing without image", port.Fields{"filename": image.Filename})
		return "", true, nil
	}

	if err := storage.Save(ctx, name, image.ContentType, image.Body); err != nil {
		logger.Error("Failed to store image", err, port.Fields{"filename": name})
		if errors.Is(err, domain.ErrImageStorage) {
			return "", false, err
		}
		return "", false, fmt.Errorf("%w: %v", domain.ErrImageStorage, err)
	}

	logger.Debug("Image stored", port.Fields{"filename": name})
	return name, false, nil
}

// publishEvent отправляет событие после успешной записи. Ошибка только логируется.
func publishEvent(ctx context.Context, events port.ListingEventsPort, event port.ListingEvent, logger port.LoggerPort) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish listing event", port.Fields{
			"event_type": event.Type,
			"error":      err.Error(),
		})
	}
}

func listingEvent(eventType string, l domain.Listing) port.ListingEvent {
	return port.ListingEvent{
		Type:      eventType,
		ListingID: l.ID,
		Name:      l.Name,
		Activity:  l.Activity,
		Sector:    l.Sector,
		Location:  l.Location,
		ImageSet:  l.Image != "",
	}
}
