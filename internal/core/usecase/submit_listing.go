package usecase

import (
	"context"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"listings-service/internal/core/port/usecases_port"
	"time"
)

type SubmitListingUseCase struct {
	repo     port.ListingRepositoryPort
	images   port.ImageStoragePort
	notifier port.NotifierPort
	events   port.ListingEventsPort
	policy   *domain.ImagePolicy
	taxonomy *domain.Taxonomy
}

func NewSubmitListingUseCase(
	repo port.ListingRepositoryPort,
	images port.ImageStoragePort,
	notifier port.NotifierPort,
	events port.ListingEventsPort,
	policy *domain.ImagePolicy,
	taxonomy *domain.Taxonomy,
) *SubmitListingUseCase {
	return &SubmitListingUseCase{
		repo:     repo,
		images:   images,
		notifier: notifier,
		events:   events,
		policy:   policy,
		taxonomy: taxonomy,
	}
}

// Execute проверяет черновик, сохраняет изображение и объявление, затем уведомляет.
// Ошибка письма не откатывает вставку и возвращается в SubmissionResult.NotificationErr.
func (uc *SubmitListingUseCase) Execute(ctx context.Context, draft domain.ListingDraft, image *domain.ImageUpload) (*usecases_port.SubmissionResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SubmitListing",
		"nombre":   draft.Name,
	})

	ucLogger.Info("Use case started", nil)

	fields, err := draft.Validate(uc.taxonomy)
	if err != nil {
		ucLogger.Info("Submission rejected by validation", port.Fields{"reason": err.Error()})
		return nil, err
	}

	imageName, rejected, err := storeImage(ctx, uc.images, uc.policy, image, ucLogger)
	if err != nil {
		return nil, err
	}

	id, err := uc.repo.Create(ctx, *fields, imageName)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	result := &usecases_port.SubmissionResult{
		Listing:       domain.Listing{ID: id, ListingFields: *fields, Image: imageName},
		ImageRejected: rejected,
	}
	ucLogger = ucLogger.WithFields(port.Fields{"listing_id": id})

	if err := uc.notifier.NotifyNewListing(ctx, fields.Name, fields.ContactEmail); err != nil {
		ucLogger.Error("Listing saved but notification failed", err, nil)
		result.NotificationErr = err
	}

	event := listingEvent(port.ListingCreatedEvent, result.Listing)
	event.OccurredAt = time.Now().UTC()
	publishEvent(ctx, uc.events, event, ucLogger)

	ucLogger.Info("Use case finished successfully", port.Fields{"image": imageName})
	return result, nil
}
