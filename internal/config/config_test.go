package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8000), cfg.HTTP.Port)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "https://gutendex.com", cfg.Catalog.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, uint(3), cfg.Catalog.FetchAttempts)
	assert.Equal(t, 50, cfg.Search.DefaultLimit)
	assert.Equal(t, 200, cfg.Search.MaxLimit)
	assert.Equal(t, "0 3 * * *", cfg.Maintenance.Schedule)
	assert.True(t, cfg.Processing.EmbedImages)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOOKS_DIR", "/srv/books")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("CATALOG_TIMEOUT", "5s")
	t.Setenv("EMBED_IMAGES", "false")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "/srv/books", cfg.Storage.BooksDir)
	assert.True(t, cfg.Storage.UsesSQLite())
	assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout)
	assert.False(t, cfg.Processing.EmbedImages)
}

func TestStorage_DerivedPaths(t *testing.T) {
	s := Storage{DataDir: "/var/lib/pp", BooksDir: "/srv/books"}

	assert.Equal(t, filepath.Join("/var/lib/pp", "state.json"), s.StatePath())
	assert.Equal(t, filepath.Join("/srv/books", "index.json"), s.LibraryPath())
	assert.Equal(t, filepath.Join("/srv/books", "markdown"), s.ContentDir())
	assert.Equal(t, filepath.Join("/var/lib/pp", "covers"), s.CoversDir())
	assert.False(t, s.UsesSQLite())
}
