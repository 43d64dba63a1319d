package usecase

import (
	"context"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
)

type FindListingsUseCase struct {
	repo port.ListingRepositoryPort
}

func NewFindListingsUseCase(repo port.ListingRepositoryPort) *FindListingsUseCase {
	return &FindListingsUseCase{repo: repo}
}

func (uc *FindListingsUseCase) Execute(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "FindListings",
		"filter":   filter,
	})

	ucLogger.Debug("Use case started", nil)

	listings, err := uc.repo.FindWithFilter(ctx, filter)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"total_found": len(listings)})
	return listings, nil
}
