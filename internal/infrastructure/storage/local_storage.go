package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	recipeapp "github.com/foodgram/backend/internal/application/recipe"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ recipeapp.ImageStorage = (*LocalImageStorage)(nil)

// ErrInvalidKey is returned for keys that are empty or escape the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// LocalImageStorage writes images below a directory that the HTTP server
// exposes at baseURL.
type LocalImageStorage struct {
	dir     string
	baseURL string
}

// NewLocalImageStorage creates the storage directory if needed
func NewLocalImageStorage(dir, baseURL string) (*LocalImageStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalImageStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir returns the storage root
func (s *LocalImageStorage) Dir() string {
	return s.dir
}

// Save writes data to key through a temp file so readers never see a
// partial image
func (s *LocalImageStorage) Save(_ context.Context, key string, data []byte, _ string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to store image: %w", err)
	}
	return nil
}

// URL returns baseURL/key
func (s *LocalImageStorage) URL(_ context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes key; a missing file is not an error
func (s *LocalImageStorage) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// validateKey accepts clean, relative, slash-separated keys
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key || !filepath.IsLocal(filepath.FromSlash(key)) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// NewImageStorage builds the storage selected by cfg.Driver
func NewImageStorage(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (recipeapp.ImageStorage, error) {
	switch cfg.Driver {
	case "s3":
		s3Storage, err := NewS3ImageStorage(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Using S3 image storage", zap.String("bucket", s3Storage.Bucket()))
		return s3Storage, nil
	case "local", "":
		local, err := NewLocalImageStorage(cfg.LocalDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Using local image storage", zap.String("dir", cfg.LocalDir))
		return local, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
