package usecase

import (
	"context"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"time"
)

// Все административные операции сначала проверяют токен и только потом обращаются к хранилищу.

type GetListingForEditUseCase struct {
	repo  port.ListingRepositoryPort
	guard *domain.AdminGuard
}

func NewGetListingForEditUseCase(repo port.ListingRepositoryPort, guard *domain.AdminGuard) *GetListingForEditUseCase {
	return &GetListingForEditUseCase{repo: repo, guard: guard}
}

func (uc *GetListingForEditUseCase) Execute(ctx context.Context, adminToken string, id int64) (*domain.Listing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "GetListingForEdit",
		"listing_id": id,
	})

	if err := uc.guard.Authorize(adminToken); err != nil {
		ucLogger.Warn("Admin token rejected", nil)
		return nil, err
	}

	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

type UpdateListingUseCase struct {
	repo     port.ListingRepositoryPort
	images   port.ImageStoragePort
	events   port.ListingEventsPort
	guard    *domain.AdminGuard
	policy   *domain.ImagePolicy
	taxonomy *domain.Taxonomy
}

func NewUpdateListingUseCase(
	repo port.ListingRepositoryPort,
	images port.ImageStoragePort,
	events port.ListingEventsPort,
	guard *domain.AdminGuard,
	policy *domain.ImagePolicy,
	taxonomy *domain.Taxonomy,
) *UpdateListingUseCase {
	return &UpdateListingUseCase{
		repo:     repo,
		images:   images,
		events:   events,
		guard:    guard,
		policy:   policy,
		taxonomy: taxonomy,
	}
}

// Execute перезаписывает все поля. Ссылка на изображение меняется только при новом
// допустимом файле; старый файл остается в хранилище.
func (uc *UpdateListingUseCase) Execute(ctx context.Context, adminToken string, id int64, draft domain.ListingDraft, image *domain.ImageUpload) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "UpdateListing",
		"listing_id": id,
	})

	if err := uc.guard.Authorize(adminToken); err != nil {
		ucLogger.Warn("Admin token rejected", nil)
		return err
	}

	fields, err := draft.Validate(uc.taxonomy)
	if err != nil {
		ucLogger.Info("Update rejected by validation", port.Fields{"reason": err.Error()})
		return err
	}

	imageName, _, err := storeImage(ctx, uc.images, uc.policy, image, ucLogger)
	if err != nil {
		return err
	}
	var imageRef *string
	if imageName != "" {
		imageRef = &imageName
	}

	found, err := uc.repo.Update(ctx, id, *fields, imageRef)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}
	if !found {
		ucLogger.Warn("Listing to update does not exist, nothing changed", nil)
		return nil
	}

	listing := domain.Listing{ID: id, ListingFields: *fields, Image: imageName}
	event := listingEvent(port.ListingUpdatedEvent, listing)
	event.ImageSet = imageRef != nil
	event.OccurredAt = time.Now().UTC()
	publishEvent(ctx, uc.events, event, ucLogger)

	ucLogger.Info("Listing updated", port.Fields{"image_replaced": imageRef != nil})
	return nil
}

type DeleteListingUseCase struct {
	repo   port.ListingRepositoryPort
	events port.ListingEventsPort
	guard  *domain.AdminGuard
}

func NewDeleteListingUseCase(repo port.ListingRepositoryPort, events port.ListingEventsPort, guard *domain.AdminGuard) *DeleteListingUseCase {
	return &DeleteListingUseCase{repo: repo, events: events, guard: guard}
}

func (uc *DeleteListingUseCase) Execute(ctx context.Context, adminToken string, id int64) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "DeleteListing",
		"listing_id": id,
	})

	if err := uc.guard.Authorize(adminToken); err != nil {
		ucLogger.Warn("Admin token rejected", nil)
		return err
	}

	found, err := uc.repo.Delete(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}
	if !found {
		ucLogger.Warn("Listing to delete does not exist, nothing changed", nil)
		return nil
	}

	publishEvent(ctx, uc.events, port.ListingEvent{
		Type:       port.ListingDeletedEvent,
		ListingID:  id,
		OccurredAt: time.Now().UTC(),
	}, ucLogger)

	ucLogger.Info("Listing deleted", nil)
	return nil
}
