package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// QueueCleanupOrphanFiles names the orphan cleanup queue.
const QueueCleanupOrphanFiles = "cleanup_orphan_files"

// OrphanGracePeriod keeps recently written content files, which may belong
// to a pipeline that has not yet added its library entry.
const OrphanGracePeriod = time.Hour

// OrphanFilesCleaner provides the ability to delete unreferenced content files.
type OrphanFilesCleaner interface {
	CleanupOrphanFiles(minAge time.Duration, dryRun bool) ([]string, error)
}

// CleanupOrphanFilesTask removes content files that no library entry
// references, such as those left by cancelled pipelines.
type CleanupOrphanFilesTask struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupOrphanFilesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueCleanupOrphanFiles,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphanFilesProcessor creates a processor function for CleanupOrphanFilesTask.
func CleanupOrphanFilesProcessor(cleaner OrphanFilesCleaner) backlite.QueueProcessor[CleanupOrphanFilesTask] {
	return func(ctx context.Context, task CleanupOrphanFilesTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan files cleaner not configured")
		}

		removed, err := cleaner.CleanupOrphanFiles(OrphanGracePeriod, task.DryRun)
		if err != nil {
			return fmt.Errorf("cleanup orphan files: %w", err)
		}

		if task.DryRun {
			log.Printf("[TASK] Found %d orphan content files (dry run)", len(removed))
		} else {
			log.Printf("[TASK] Cleaned up %d orphan content files", len(removed))
		}
		return nil
	}
}

// NewCleanupOrphanFilesQueue creates a backlite queue for orphan file cleanup tasks.
func NewCleanupOrphanFilesQueue(cleaner OrphanFilesCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanFilesProcessor(cleaner))
}
