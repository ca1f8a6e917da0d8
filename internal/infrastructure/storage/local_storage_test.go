package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalImageStorage(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalImageStorage(filepath.Join(dir, "media"), "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "recipes/a.png", []byte("first"), "image/png"))
	require.NoError(t, storage.Save(ctx, "recipes/a.png", []byte("second"), "image/png"))

	data, err := os.ReadFile(filepath.Join(dir, "media", "recipes", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "media", "recipes"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	u, err := storage.URL(ctx, "recipes/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/a.png", u)

	require.NoError(t, storage.Delete(ctx, "recipes/a.png"))
	_, err = os.Stat(filepath.Join(dir, "media", "recipes", "a.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoError(t, storage.Delete(ctx, "recipes/a.png"), "deleting twice is fine")
}

func TestValidateKey(t *testing.T) {
	valid := []string{"a.png", "recipes/a.png", "recipes/2025/a.webp"}
	for _, key := range valid {
		assert.NoError(t, validateKey(key), key)
	}

	invalid := []string{"", "/etc/passwd", "../a.png", "recipes/../../a.png", "recipes//a.png", "recipes/./a.png", "recipes/"}
	for _, key := range invalid {
		assert.ErrorIs(t, validateKey(key), ErrInvalidKey, key)
	}
}

func TestNewImageStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("local", func(t *testing.T) {
		cfg := &config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), PublicBaseURL: "/media"}
		s, err := NewImageStorage(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &LocalImageStorage{}, s)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewImageStorage(ctx, &config.StorageConfig{Driver: "ftp"}, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported storage driver")
	})
}
