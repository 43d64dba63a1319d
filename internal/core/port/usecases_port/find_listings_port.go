package usecases_port

import (
	"context"
	"listings-service/internal/core/domain"
)

type FindListingsUseCase interface {
	Execute(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
}
