package usecase

import (
	"context"
	"errors"
	"fmt"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submitFixture struct {
	repo     *memoryRepo
	images   *memoryImages
	notifier *fakeNotifier
	events   *fakeEvents
	uc       *SubmitListingUseCase
}

func newSubmitFixture() *submitFixture {
	f := &submitFixture{
		repo:     newMemoryRepo(),
		images:   newMemoryImages(),
		notifier: &fakeNotifier{},
		events:   &fakeEvents{},
	}
	f.uc = NewSubmitListingUseCase(f.repo, f.images, f.notifier, f.events,
		domain.NewImagePolicy(nil), domain.DefaultTaxonomy())
	return f
}

func upload(name string) *domain.ImageUpload {
	return &domain.ImageUpload{Filename: name, ContentType: "image/jpeg", Body: strings.NewReader("img")}
}

func TestSubmitListing_WithImage(t *testing.T) {
	f := newSubmitFixture()

	res, err := f.uc.Execute(context.Background(), validDraft(), upload("../../Foto Café.JPG"))

	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.count())
	assert.Equal(t, "Foto_Cafe.JPG", res.Listing.Image)
	assert.False(t, res.ImageRejected)
	assert.NoError(t, res.NotificationErr)
	assert.Equal(t, "img", f.images.saved["Foto_Cafe.JPG"])

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, sentNotification{name: "Cafetería La Plaza", contact: "owner@example.com"}, f.notifier.sent[0])

	require.Len(t, f.events.published, 1)
	assert.Equal(t, port.ListingCreatedEvent, f.events.published[0].Type)
	assert.Equal(t, res.Listing.ID, f.events.published[0].ListingID)
	assert.True(t, f.events.published[0].ImageSet)
}

func TestSubmitListing_MissingNameStoresNothing(t *testing.T) {
	f := newSubmitFixture()
	draft := validDraft()
	draft.Name = "   "

	_, err := f.uc.Execute(context.Background(), draft, upload("logo.png"))

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.FieldName, vErr.Field)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.repo.calls)
	assert.Empty(t, f.images.saved)
	assert.Empty(t, f.notifier.sent)
}

func TestSubmitListing_SectorMustBelongToActivity(t *testing.T) {
	f := newSubmitFixture()
	draft := validDraft()
	draft.Sector = "Software"

	_, err := f.uc.Execute(context.Background(), draft, nil)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.FieldSector, vErr.Field)
	assert.Zero(t, f.repo.count())
}

func TestSubmitListing_DisallowedExtensionIsIgnored(t *testing.T) {
	f := newSubmitFixture()

	res, err := f.uc.Execute(context.Background(), validDraft(), upload("virus.exe"))

	require.NoError(t, err)
	assert.Equal(t, "", res.Listing.Image)
	assert.True(t, res.ImageRejected)
	assert.Empty(t, f.images.saved)
	assert.Equal(t, 1, f.repo.count())
}

func TestSubmitListing_WithoutImage(t *testing.T) {
	f := newSubmitFixture()

	res, err := f.uc.Execute(context.Background(), validDraft(), nil)

	require.NoError(t, err)
	assert.Empty(t, res.Listing.Image)
	assert.False(t, res.ImageRejected)
	stored, err := f.repo.GetByID(context.Background(), res.Listing.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Debt)
	require.NotNil(t, stored.Employees)
	assert.Equal(t, 5, *stored.Employees)
}

func TestSubmitListing_NotificationFailureKeepsListing(t *testing.T) {
	f := newSubmitFixture()
	f.notifier.err = fmt.Errorf("%w: smtp timeout", domain.ErrNotificationFailed)

	res, err := f.uc.Execute(context.Background(), validDraft(), nil)

	require.NoError(t, err)
	assert.ErrorIs(t, res.NotificationErr, domain.ErrNotificationFailed)
	assert.Equal(t, 1, f.repo.count())
	assert.Len(t, f.events.published, 1)
}

func TestSubmitListing_ImageStorageFailureAbortsBeforeInsert(t *testing.T) {
	f := newSubmitFixture()
	f.images.err = errors.New("disk full")

	_, err := f.uc.Execute(context.Background(), validDraft(), upload("logo.png"))

	assert.ErrorIs(t, err, domain.ErrImageStorage)
	assert.Zero(t, f.repo.count())
	assert.Empty(t, f.notifier.sent)
}

func TestSubmitListing_StoreUnavailable(t *testing.T) {
	f := newSubmitFixture()
	f.repo.err = fmt.Errorf("insert: %w", domain.ErrStoreUnavailable)

	_, err := f.uc.Execute(context.Background(), validDraft(), nil)

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Empty(t, f.notifier.sent)
	assert.Empty(t, f.events.published)
}

func TestSubmitListing_EventFailureIsNotFatal(t *testing.T) {
	f := newSubmitFixture()
	f.events.err = errors.New("broker down")

	res, err := f.uc.Execute(context.Background(), validDraft(), nil)

	require.NoError(t, err)
	assert.NotZero(t, res.Listing.ID)
}
