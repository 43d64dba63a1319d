package filestore_adapter

import (
	"context"
	"fmt"
	"io"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage кладет изображения в каталог статических файлов (UPLOAD_FOLDER).
type LocalStorage struct {
	dir string
}

// NewLocalStorage создает каталог, если его еще нет.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload folder is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload folder %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save перезаписывает файл с тем же именем. Имя должно быть уже очищено SecureFilename.
func (s *LocalStorage) Save(ctx context.Context, filename string, contentType string, body io.Reader) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "LocalStorage",
		"filename":  filename,
	})

	if err := checkFilename(filename); err != nil {
		return err
	}

	// Пишем во временный файл и переименовываем, чтобы не оставлять обрезанных изображений
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImageStorage, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	written, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		logger.Error("Failed to write image", err, nil)
		return fmt.Errorf("%w: %v", domain.ErrImageStorage, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, filename)); err != nil {
		logger.Error("Failed to move image into place", err, nil)
		return fmt.Errorf("%w: %v", domain.ErrImageStorage, err)
	}

	logger.Debug("Image stored.", port.Fields{"bytes": written, "content_type": contentType})
	return nil
}

func checkFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("%w: unsafe filename %q", domain.ErrImageStorage, filename)
	}
	return nil
}
