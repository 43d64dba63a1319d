package port

import (
	"context"
	"io"
)

// ImageStoragePort - внешняя область статических файлов, куда кладутся изображения объявлений.
type ImageStoragePort interface {
	// Save сохраняет файл под именем filename (уже очищенным) и перезаписывает существующий.
	Save(ctx context.Context, filename string, contentType string, body io.Reader) error
}
