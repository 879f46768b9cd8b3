package storage

import (
	"context"
	"io"
)

// FileUploader абстрагирует объектное хранилище для логотипов команд и
// фотографий площадок. Upload возвращает ключ сохранённого объекта.
type FileUploader interface {
	Upload(ctx context.Context, reader io.Reader, key string, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
