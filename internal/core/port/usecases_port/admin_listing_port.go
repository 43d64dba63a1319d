package usecases_port

import (
	"context"
	"listings-service/internal/core/domain"
)

type GetListingForEditUseCase interface {
	Execute(ctx context.Context, adminToken string, id int64) (*domain.Listing, error)
}

type UpdateListingUseCase interface {
	Execute(ctx context.Context, adminToken string, id int64, draft domain.ListingDraft, image *domain.ImageUpload) error
}

type DeleteListingUseCase interface {
	Execute(ctx context.Context, adminToken string, id int64) error
}
