package entrypoint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/printingpress/internal/config"
	"github.com/mrlokans/printingpress/internal/entities"
)

func storageConfig(t *testing.T, backend string) config.Storage {
	t.Helper()
	root := t.TempDir()
	return config.Storage{
		DataDir:      filepath.Join(root, "data"),
		BooksDir:     filepath.Join(root, "books"),
		Backend:      backend,
		DatabasePath: filepath.Join(root, "data", "printingpress.db"),
	}
}

func TestOpenStore_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := storageConfig(t, backend)

			st, db, err := OpenStore(cfg)
			require.NoError(t, err)
			if backend == config.BackendSQLite {
				require.NotNil(t, db)
			} else {
				assert.Nil(t, db)
			}

			assert.DirExists(t, cfg.ContentDir())

			added, err := st.AddToBasket(entities.BasketItem{
				Book:    entities.SourceBook{ID: 1, Title: "Persisted"},
				AddedAt: time.Now(),
			})
			require.NoError(t, err)
			require.True(t, added)
			if db != nil {
				require.NoError(t, db.Close())
			}

			reopened, db, err := OpenStore(cfg)
			require.NoError(t, err)
			if db != nil {
				defer db.Close()
			}
			assert.True(t, reopened.InBasket(1))

			if backend == config.BackendFile {
				_, err := os.Stat(cfg.StatePath())
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, _, err := OpenStore(storageConfig(t, "postgres"))
	assert.ErrorContains(t, err, "unknown storage backend")
}
