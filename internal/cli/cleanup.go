package cli

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/printingpress/internal/config"
	"github.com/mrlokans/printingpress/internal/database"
	"github.com/mrlokans/printingpress/internal/store"
)

// CleanupCommand deletes content files that no library entry references.
type CleanupCommand struct {
	BooksDir     string
	DatabasePath string
	MinAge       time.Duration
	DryRun       bool
}

func NewCleanupCommand() *CleanupCommand {
	return &CleanupCommand{}
}

func (cmd *CleanupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup", flag.ContinueOnError)

	fs.StringVar(&cmd.BooksDir, "books-dir", config.DefaultBooksDir, "Books directory containing index.json and markdown/")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Read the library index from this SQLite database instead of index.json")
	fs.DurationVar(&cmd.MinAge, "min-age", 0, "Only remove files older than this")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "List orphan files without deleting them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Remove Markdown files that are not referenced by the library index.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s cleanup -books-dir ./books -dry-run\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s cleanup -books-dir ./books -db ./data/printingpress.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.BooksDir == "" {
		fs.Usage()
		return fmt.Errorf("books directory is required")
	}

	return nil
}

func (cmd *CleanupCommand) Run() error {
	if _, err := os.Stat(cmd.BooksDir); os.IsNotExist(err) {
		return fmt.Errorf("books directory does not exist: %s", cmd.BooksDir)
	}

	libraryDoc := store.Document(store.NewFileDocument(filepath.Join(cmd.BooksDir, config.LibraryFileName)))
	if cmd.DatabasePath != "" {
		db, err := database.NewDatabase(cmd.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		libraryDoc = db.Document(database.LibraryDocument)
	}

	// The queue state is irrelevant here and must not be rewritten.
	st := store.New(discardDocument{}, libraryDoc, cmd.BooksDir)
	if err := st.Load(); err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	removed, err := st.CleanupOrphanFiles(cmd.MinAge, cmd.DryRun)
	if err != nil {
		return fmt.Errorf("failed to clean up: %w", err)
	}

	verb := "Removed"
	if cmd.DryRun {
		verb = "Would remove"
	}
	for _, name := range removed {
		fmt.Printf("%s %s\n", verb, name)
	}
	fmt.Printf("%s %d orphan file(s); library has %d book(s)\n", verb, len(removed), len(st.GetLibrary()))
	return nil
}

// discardDocument always reads as missing and drops writes.
type discardDocument struct{}

func (discardDocument) Load() ([]byte, error) { return nil, fs.ErrNotExist }
func (discardDocument) Save([]byte) error     { return nil }
