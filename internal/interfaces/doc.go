// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Persistence
//
//   - store.Document: one persisted document (internal/store/document.go),
//     backed by a JSON file or a row in the SQLite documents table
//   - processor.StateStore: pipeline writes (internal/processor/processor.go)
//   - http.Store and its parts: controller access (internal/http/stores.go)
//
// ## Pipeline
//
//   - processor.ContentFetcher: book bodies from the catalog
//   - converter.ImageFetcher: binary resources for image embedding
//   - processor.Indexer: receives newly added library entries
//
// ## Search
//
//   - search.Library: entries and content locations to index
//   - http.LibrarySearcher, tasks.IndexRebuilder: query and rebuild the index
//
// ## Background Tasks
//
//   - http.TaskQueue: enqueue and inspect backlite tasks
//   - scheduler.Enqueuer: periodic maintenance
//   - tasks.OrphanFilesCleaner: orphan content removal
//
// # Adding a New Document Backend
//
//  1. Implement store.Document. Load must return an error wrapping
//     fs.ErrNotExist when nothing has been saved yet, so the store can start
//     empty without logging a warning.
//
//     type RedisDocument struct { key string; client *redis.Client }
//
//     func (d *RedisDocument) Load() ([]byte, error)
//     func (d *RedisDocument) Save(data []byte) error
//
//  2. Select it in entrypoint.OpenStore.
//
//  3. Add a compile-time check to checks.go.
//
// # Adding a New Maintenance Task
//
//  1. Define the task and its queue in internal/tasks/ (see rebuild_index.go).
//  2. Register the queue in entrypoint.Run.
//  3. Expose it in internal/http/tasks.go and, if periodic, enqueue it from
//     the maintenance scheduler.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
