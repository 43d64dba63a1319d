package usecase

import (
	"context"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminSecret = "s3cret-token"

func seededListing() domain.Listing {
	return domain.Listing{
		ID: 1,
		ListingFields: domain.ListingFields{
			Name: "Farmacia Central", ContactEmail: "f@example.com", Activity: "Comercio",
			Sector: "Farmacia", Country: "España", Location: "Sevilla", Description: "Farmacia",
			Revenue: 500000, PropertyStatus: domain.PropertyOwned, SalePrice: 400000,
		},
		Image: "x.png",
	}
}

func TestGetListingForEdit(t *testing.T) {
	repo := newMemoryRepo(seededListing())
	uc := NewGetListingForEditUseCase(repo, domain.NewAdminGuard(adminSecret))
	ctx := context.Background()

	l, err := uc.Execute(ctx, adminSecret, 1)
	require.NoError(t, err)
	assert.Equal(t, "Farmacia Central", l.Name)

	_, err = uc.Execute(ctx, adminSecret, 99)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	calls := repo.calls
	_, err = uc.Execute(ctx, "wrong", 1)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Equal(t, calls, repo.calls, "store must not be touched without a valid token")
}

func TestUpdateListing_WithoutImageKeepsReference(t *testing.T) {
	repo := newMemoryRepo(seededListing())
	events := &fakeEvents{}
	uc := NewUpdateListingUseCase(repo, newMemoryImages(), events, domain.NewAdminGuard(adminSecret),
		domain.NewImagePolicy(nil), domain.DefaultTaxonomy())

	draft := validDraft()
	draft.Name = "Nuevo nombre"
	require.NoError(t, uc.Execute(context.Background(), adminSecret, 1, draft, nil))

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Nuevo nombre", got.Name)
	assert.Equal(t, "Hostelería", got.Activity)
	assert.Equal(t, "x.png", got.Image)

	require.Len(t, events.published, 1)
	assert.Equal(t, port.ListingUpdatedEvent, events.published[0].Type)
	assert.False(t, events.published[0].ImageSet)
}

func TestUpdateListing_WithImageOverwritesReference(t *testing.T) {
	repo := newMemoryRepo(seededListing())
	images := newMemoryImages()
	uc := NewUpdateListingUseCase(repo, images, &fakeEvents{}, domain.NewAdminGuard(adminSecret),
		domain.NewImagePolicy(nil), domain.DefaultTaxonomy())

	require.NoError(t, uc.Execute(context.Background(), adminSecret, 1, validDraft(), upload("nueva.jpeg")))

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "nueva.jpeg", got.Image)
	assert.Contains(t, images.saved, "nueva.jpeg")
}

func TestUpdateListing_RejectedImageKeepsReference(t *testing.T) {
	repo := newMemoryRepo(seededListing())
	uc := NewUpdateListingUseCase(repo, newMemoryImages(), &fakeEvents{}, domain.NewAdminGuard(adminSecret),
		domain.NewImagePolicy(nil), domain.DefaultTaxonomy())

	require.NoError(t, uc.Execute(context.Background(), adminSecret, 1, validDraft(), upload("doc.pdf")))

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "x.png", got.Image)
}

func TestUpdateListing_BadTokenNeverMutates(t *testing.T) {
	for _, token := range []string{"", "wrong", adminSecret + "x"} {
		repo := newMemoryRepo(seededListing())
		images := newMemoryImages()
		uc := NewUpdateListingUseCase(repo, images, &fakeEvents{}, domain.NewAdminGuard(adminSecret),
			domain.NewImagePolicy(nil), domain.DefaultTaxonomy())

		err := uc.Execute(context.Background(), token, 1, validDraft(), upload("a.png"))

		assert.ErrorIs(t, err, domain.ErrAccessDenied)
		assert.Zero(t, repo.calls)
		assert.Empty(t, images.saved)
	}
}

func TestUpdateListing_ValidationError(t *testing.T) {
	repo := newMemoryRepo(seededListing())
	uc := NewUpdateListingUseCase(repo, newMemoryImages(), &fakeEvents{}, domain.NewAdminGuard(adminSecret),
		domain.NewImagePolicy(nil), domain.DefaultTaxonomy())
	draft := validDraft()
	draft.SalePrice = "mucho"

	err := uc.Execute(context.Background(), adminSecret, 1, draft, nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
	got, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, 400000.0, got.SalePrice)
}

func TestUpdateListing_UnknownIDIsNoop(t *testing.T) {
	repo := newMemoryRepo(seededListing())
	events := &fakeEvents{}
	uc := NewUpdateListingUseCase(repo, newMemoryImages(), events, domain.NewAdminGuard(adminSecret),
		domain.NewImagePolicy(nil), domain.DefaultTaxonomy())

	require.NoError(t, uc.Execute(context.Background(), adminSecret, 42, validDraft(), nil))
	assert.Equal(t, 1, repo.count())
	assert.Empty(t, events.published)
}

func TestDeleteListing(t *testing.T) {
	repo := newMemoryRepo(seededListing())
	events := &fakeEvents{}
	uc := NewDeleteListingUseCase(repo, events, domain.NewAdminGuard(adminSecret))
	ctx := context.Background()

	assert.ErrorIs(t, uc.Execute(ctx, "nope", 1), domain.ErrAccessDenied)
	assert.Equal(t, 1, repo.count())

	require.NoError(t, uc.Execute(ctx, adminSecret, 1))
	assert.Zero(t, repo.count())
	require.Len(t, events.published, 1)
	assert.Equal(t, port.ListingDeletedEvent, events.published[0].Type)

	// Повторное удаление - тихий no-op
	require.NoError(t, uc.Execute(ctx, adminSecret, 1))
	assert.Len(t, events.published, 1)
}

func TestAdminOperations_EmptySecretDeniesEverything(t *testing.T) {
	repo := newMemoryRepo(seededListing())
	uc := NewDeleteListingUseCase(repo, &fakeEvents{}, domain.NewAdminGuard(""))

	assert.ErrorIs(t, uc.Execute(context.Background(), "", 1), domain.ErrAccessDenied)
	assert.Equal(t, 1, repo.count())
}

func TestCheckHealth(t *testing.T) {
	repo := newMemoryRepo()
	uc := NewCheckHealthUseCase(repo)
	assert.NoError(t, uc.Execute(context.Background()))

	repo.err = domain.ErrStoreUnavailable
	assert.ErrorIs(t, uc.Execute(context.Background()), domain.ErrStoreUnavailable)
}
