package filestore_adapter

import (
	"context"
	"errors"
	"io"
	"listings-service/internal/core/domain"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndOverwrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "logo.png", "image/png", strings.NewReader("first")))
	require.NoError(t, store.Save(ctx, "logo.png", "image/png", strings.NewReader("second")))

	data, err := os.ReadFile(filepath.Join(dir, "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestLocalStorage_RejectsPathsOutsideFolder(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../evil.png", `a\b.png`, "sub/dir.png"} {
		err := store.Save(context.Background(), name, "image/png", strings.NewReader("x"))
		assert.ErrorIs(t, err, domain.ErrImageStorage, name)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStorage_ReadFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	err = store.Save(context.Background(), "logo.png", "image/png", failingReader{})
	assert.ErrorIs(t, err, domain.ErrImageStorage)

	_, statErr := os.Stat(filepath.Join(dir, "logo.png"))
	assert.True(t, os.IsNotExist(statErr))
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	data, _ := io.ReadAll(params.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_Save(t *testing.T) {
	client := &fakeS3{}
	store := newS3Storage(client, "listings-images", "uploads")

	err := store.Save(context.Background(), "logo.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))

	require.NoError(t, err)
	require.NotNil(t, client.input)
	assert.Equal(t, "listings-images", aws.ToString(client.input.Bucket))
	assert.Equal(t, "uploads/logo.jpg", aws.ToString(client.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(client.input.ContentType))
	assert.Equal(t, "jpeg-bytes", client.body)
}

func TestS3Storage_WrapsUploadError(t *testing.T) {
	store := newS3Storage(&fakeS3{err: errors.New("AccessDenied")}, "b", "")

	err := store.Save(context.Background(), "logo.jpg", "", strings.NewReader("x"))

	assert.ErrorIs(t, err, domain.ErrImageStorage)
}
