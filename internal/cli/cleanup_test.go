package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/printingpress/internal/database"
	"github.com/mrlokans/printingpress/internal/entities"
)

func writeBooksDir(t *testing.T, files ...string) string {
	t.Helper()
	booksDir := t.TempDir()
	contentDir := filepath.Join(booksDir, "markdown")
	require.NoError(t, os.MkdirAll(contentDir, 0755))
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(contentDir, name), []byte("# x"), 0644))
	}
	return booksDir
}

func libraryJSON(t *testing.T, ids ...int) []byte {
	t.Helper()
	var entries []entities.LibraryEntry
	for _, id := range ids {
		entries = append(entries, entities.LibraryEntry{
			ID:           id,
			Title:        "Kept",
			MarkdownPath: "markdown/kept.md",
		})
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	return data
}

func TestCleanupCommand_FileIndex(t *testing.T) {
	booksDir := writeBooksDir(t, "kept.md", "orphan.md", "notes.txt")
	require.NoError(t, os.WriteFile(filepath.Join(booksDir, "index.json"), libraryJSON(t, 1), 0644))

	t.Run("dry run keeps files", func(t *testing.T) {
		cmd := NewCleanupCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-books-dir", booksDir, "-dry-run"}))
		require.NoError(t, cmd.Run())
		assert.FileExists(t, filepath.Join(booksDir, "markdown", "orphan.md"))
	})

	t.Run("removes orphans only", func(t *testing.T) {
		cmd := NewCleanupCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-books-dir", booksDir}))
		require.NoError(t, cmd.Run())

		assert.FileExists(t, filepath.Join(booksDir, "markdown", "kept.md"))
		assert.FileExists(t, filepath.Join(booksDir, "markdown", "notes.txt"))
		assert.NoFileExists(t, filepath.Join(booksDir, "markdown", "orphan.md"))
	})

	assert.NoFileExists(t, filepath.Join(booksDir, "state.json"))
}

func TestCleanupCommand_DatabaseIndex(t *testing.T) {
	booksDir := writeBooksDir(t, "kept.md", "orphan.md")
	dbPath := filepath.Join(t.TempDir(), "pp.db")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Document(database.LibraryDocument).Save(libraryJSON(t, 1)))
	require.NoError(t, db.Close())

	cmd := &CleanupCommand{BooksDir: booksDir, DatabasePath: dbPath}
	require.NoError(t, cmd.Run())

	assert.FileExists(t, filepath.Join(booksDir, "markdown", "kept.md"))
	assert.NoFileExists(t, filepath.Join(booksDir, "markdown", "orphan.md"))
}

func TestCleanupCommand_MissingBooksDir(t *testing.T) {
	cmd := &CleanupCommand{BooksDir: filepath.Join(t.TempDir(), "missing")}
	assert.ErrorContains(t, cmd.Run(), "does not exist")
}
