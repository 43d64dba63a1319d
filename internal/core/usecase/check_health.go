package usecase

import (
	"context"
	"listings-service/internal/core/port"
)

type CheckHealthUseCase struct {
	repo port.ListingRepositoryPort
}

func NewCheckHealthUseCase(repo port.ListingRepositoryPort) *CheckHealthUseCase {
	return &CheckHealthUseCase{repo: repo}
}

func (uc *CheckHealthUseCase) Execute(ctx context.Context) error {
	return uc.repo.Ping(ctx)
}
