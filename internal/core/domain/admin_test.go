package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminGuard_Authorize(t *testing.T) {
	g := NewAdminGuard("s3cret")

	assert.NoError(t, g.Authorize("s3cret"))
	assert.ErrorIs(t, g.Authorize(""), ErrAccessDenied)
	assert.ErrorIs(t, g.Authorize("s3cret "), ErrAccessDenied)
	assert.ErrorIs(t, g.Authorize("S3CRET"), ErrAccessDenied)
}

func TestAdminGuard_EmptySecretDeniesEverything(t *testing.T) {
	g := NewAdminGuard("")
	assert.ErrorIs(t, g.Authorize(""), ErrAccessDenied)
	assert.ErrorIs(t, g.Authorize("anything"), ErrAccessDenied)

	var nilGuard *AdminGuard
	assert.ErrorIs(t, nilGuard.Authorize("anything"), ErrAccessDenied)
}
