package storage

import (
	"fmt"
	"path"
	"strings"

	"onlinecourse/internal/config"
	"onlinecourse/internal/domain"
)

// NewMediaStorage returns the backend selected by cfg.Backend.
func NewMediaStorage(cfg config.MediaConfig) (domain.MediaStorage, error) {
	switch cfg.Backend {
	case config.MediaLocal, "":
		return NewLocalStorage(cfg.Root, cfg.URLPrefix), nil
	case config.MediaMinio:
		return NewMinioStorage(cfg.Minio)
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.Backend)
	}
}

// cleanKey rejects keys that are absolute or escape the media root.
func cleanKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty media key")
	}
	cleaned := path.Clean(strings.ReplaceAll(key, "\\", "/"))
	if strings.HasPrefix(cleaned, "/") || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return cleaned, nil
}
