package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/printingpress/internal/config"
	"github.com/mrlokans/printingpress/internal/converter"
	"github.com/mrlokans/printingpress/internal/covers"
	"github.com/mrlokans/printingpress/internal/database"
	"github.com/mrlokans/printingpress/internal/gutenberg"
	http_controllers "github.com/mrlokans/printingpress/internal/http"
	"github.com/mrlokans/printingpress/internal/metrics"
	"github.com/mrlokans/printingpress/internal/processor"
	"github.com/mrlokans/printingpress/internal/scheduler"
	"github.com/mrlokans/printingpress/internal/search"
	"github.com/mrlokans/printingpress/internal/store"
	"github.com/mrlokans/printingpress/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before the pipelines are torn down
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// OpenStore builds the store on the configured backend and loads it.
// The returned database is nil for the file backend.
func OpenStore(cfg config.Storage) (*store.Store, *database.Database, error) {
	var (
		stateDoc, libraryDoc store.Document
		db                   *database.Database
	)

	switch cfg.Backend {
	case config.BackendSQLite:
		var err error
		db, err = database.NewDatabase(cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		stateDoc = db.Document(database.StateDocument)
		libraryDoc = db.Document(database.LibraryDocument)
	case config.BackendFile, "":
		stateDoc = store.NewFileDocument(cfg.StatePath())
		libraryDoc = store.NewFileDocument(cfg.LibraryPath())
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	st := store.New(stateDoc, libraryDoc, cfg.BooksDir)
	if err := st.Load(); err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, fmt.Errorf("failed to load state: %w", err)
	}
	return st, db, nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Printing Press v%s", version)

	st, db, err := OpenStore(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if db != nil {
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}()
	}
	log.Printf("Storage backend: %s (books in %s)", cfg.Storage.Backend, cfg.Storage.BooksDir)

	catalog := gutenberg.NewClient(gutenberg.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Attempts:          cfg.Catalog.FetchAttempts,
		UserAgent:         cfg.Catalog.UserAgent,
	})
	conv := converter.New(catalog, cfg.Processing.ImageFetchConcurrency)

	coverCache, err := covers.NewCache(cfg.Storage.CoversDir(), catalog)
	if err != nil {
		log.Printf("WARNING: Cover cache disabled: %v", err)
	}

	index := search.NewIndex(st)
	if err := index.RebuildIndex(context.Background()); err != nil {
		log.Printf("WARNING: Failed to build search index: %v", err)
	}

	pipelineMetrics := metrics.New()
	proc := processor.New(catalog, conv, st, index, pipelineMetrics, processor.Config{
		EmbedImages: cfg.Processing.EmbedImages,
	})

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Storage.DatabasePath, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewRebuildSearchIndexQueue(index),
			tasks.NewCleanupOrphanFilesQueue(st),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Maintenance.Enabled {
			maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule)
			if err := maintenance.Start(taskCtx); err != nil {
				log.Printf("WARNING: Failed to start maintenance scheduler: %v", err)
				maintenance = nil
			}
		}
	} else {
		log.Printf("Task queue disabled: index rebuilds run inline and maintenance is not scheduled")
	}

	routerCfg := http_controllers.RouterConfig{
		Store:              st,
		Catalog:            catalog,
		Processor:          proc,
		Search:             index,
		Database:           db,
		ContentDir:         st.ContentDir(),
		SearchDefaultLimit: cfg.Search.DefaultLimit,
		SearchMaxLimit:     cfg.Search.MaxLimit,
		Metrics:            pipelineMetrics,
		Version:            version,
	}
	// Leave the interfaces nil so optional routes stay unregistered
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
	}
	if coverCache != nil {
		routerCfg.Covers = coverCache
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if err := proc.Stop(ctx); err != nil {
			log.Printf("Processing did not stop cleanly: %v", err)
		}
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
