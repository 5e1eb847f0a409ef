// Package storage persists processed media in object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"informatch/internal/config"
)

// Drivers accepted by STORAGE_DRIVER.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// ErrInvalidKey is returned for keys that could escape the store's root.
var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore writes and removes objects addressed by slash-separated keys.
type ObjectStore interface {
	// Put stores data under key and returns the object's public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFor maps a public URL produced by Put back to its key.
	KeyFor(url string) (string, bool)
}

// New builds the store selected by cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.StorageDriver {
	case "", DriverLocal:
		return NewLocalStore(cfg.ImageUploadDir, cfg.ImagePublicPath), nil
	case DriverS3:
		return NewS3Store(ctx, S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

func keyFromURL(base, url string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key, err := cleanKey(strings.TrimPrefix(url, prefix))
	if err != nil {
		return "", false
	}
	return key, true
}
