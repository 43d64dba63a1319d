package usecases_port

import (
	"context"
	"listings-service/internal/core/domain"
)

// SubmissionResult - итог публикации. NotificationErr заполнен, если письмо не ушло,
// при этом объявление уже сохранено.
type SubmissionResult struct {
	Listing         domain.Listing
	ImageRejected   bool
	NotificationErr error
}

type SubmitListingUseCase interface {
	Execute(ctx context.Context, draft domain.ListingDraft, image *domain.ImageUpload) (*SubmissionResult, error)
}
