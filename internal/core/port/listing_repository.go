package port

import (
	"context"
	"listings-service/internal/core/domain"
)

// ListingRepositoryPort - контракт хранилища объявлений.
// Ошибки связи с хранилищем оборачивают domain.ErrStoreUnavailable.
type ListingRepositoryPort interface {
	Create(ctx context.Context, fields domain.ListingFields, image string) (int64, error)
	FindWithFilter(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
	// GetByID возвращает domain.ErrListingNotFound, если строки нет
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	// Update перезаписывает все поля; image == nil оставляет ссылку на изображение как есть.
	// found == false, если строки с таким id нет.
	Update(ctx context.Context, id int64, fields domain.ListingFields, image *string) (found bool, err error)
	Delete(ctx context.Context, id int64) (found bool, err error)
	Ping(ctx context.Context) error
}
