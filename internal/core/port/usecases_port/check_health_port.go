package usecases_port

import "context"

type CheckHealthUseCase interface {
	Execute(ctx context.Context) error
}
