package config

// Default locations for persisted data
const (
	// DefaultDataDir holds the state document and the SQLite databases
	DefaultDataDir = "./data"

	// DefaultBooksDir holds the library index and converted content
	DefaultBooksDir = "./books"

	// DefaultDatabasePath is used when the sqlite storage backend is selected
	DefaultDatabasePath = "./data/printingpress.db"

	StateFileName   = "state.json"
	LibraryFileName = "index.json"
	ContentDirName  = "markdown"
	CoversDirName   = "covers"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)
