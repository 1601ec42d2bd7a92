package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Storage
		Catalog
		Processing
		Search
		Tasks
		Maintenance
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Storage struct {
		DataDir      string
		BooksDir     string
		Backend      string // "file" (JSON documents) or "sqlite"
		DatabasePath string
	}
	Catalog struct {
		BaseURL           string
		Timeout           time.Duration
		RequestsPerSecond float64
		FetchAttempts     uint
		UserAgent         string
	}
	Processing struct {
		ImageFetchConcurrency int
		EmbedImages           bool
	}
	Search struct {
		DefaultLimit int
		MaxLimit     int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

// StatePath is the location of the queue/event/bookmark document.
func (s Storage) StatePath() string {
	return filepath.Join(s.DataDir, StateFileName)
}

// LibraryPath is the location of the library index document.
func (s Storage) LibraryPath() string {
	return filepath.Join(s.BooksDir, LibraryFileName)
}

// ContentDir is the directory holding converted Markdown files.
func (s Storage) ContentDir() string {
	return filepath.Join(s.BooksDir, ContentDirName)
}

// CoversDir caches library cover images. It sits under the data directory
// so orphan cleanup of the content directory never touches it.
func (s Storage) CoversDir() string {
	return filepath.Join(s.DataDir, CoversDirName)
}

// UsesSQLite reports whether documents are kept in the SQLite database.
func (s Storage) UsesSQLite() bool {
	return s.Backend == BackendSQLite
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Storage defaults
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("books_dir", DefaultBooksDir)
	v.SetDefault("storage_backend", BackendFile)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Catalog defaults
	v.SetDefault("catalog_base_url", "https://gutendex.com")
	v.SetDefault("catalog_timeout", "30s")
	v.SetDefault("catalog_requests_per_second", 2.0)
	v.SetDefault("catalog_fetch_attempts", 3)
	v.SetDefault("catalog_user_agent", "")

	// Processing defaults
	v.SetDefault("image_fetch_concurrency", 4)
	v.SetDefault("embed_images", true)

	// Search defaults
	v.SetDefault("search_default_limit", 50)
	v.SetDefault("search_max_limit", 200)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Maintenance defaults
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 3 * * *") // Daily at 03:00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Storage: Storage{
			DataDir:      v.GetString("DATA_DIR"),
			BooksDir:     v.GetString("BOOKS_DIR"),
			Backend:      v.GetString("STORAGE_BACKEND"),
			DatabasePath: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			BaseURL:           v.GetString("CATALOG_BASE_URL"),
			Timeout:           v.GetDuration("CATALOG_TIMEOUT"),
			RequestsPerSecond: v.GetFloat64("CATALOG_REQUESTS_PER_SECOND"),
			FetchAttempts:     v.GetUint("CATALOG_FETCH_ATTEMPTS"),
			UserAgent:         v.GetString("CATALOG_USER_AGENT"),
		},
		Processing: Processing{
			ImageFetchConcurrency: v.GetInt("IMAGE_FETCH_CONCURRENCY"),
			EmbedImages:           v.GetBool("EMBED_IMAGES"),
		},
		Search: Search{
			DefaultLimit: v.GetInt("SEARCH_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("SEARCH_MAX_LIMIT"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
	}
}
