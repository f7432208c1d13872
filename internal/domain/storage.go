package domain

import (
	"context"
	"io"
)

// MediaStorage stores uploaded media such as course images.
type MediaStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public address of key.
	URL(key string) string
}
