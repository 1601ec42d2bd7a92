package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// QueueRebuildSearchIndex names the index rebuild queue.
const QueueRebuildSearchIndex = "rebuild_search_index"

// IndexRebuilder rebuilds the in-memory search index from the library.
type IndexRebuilder interface {
	RebuildIndex(ctx context.Context) error
	Size() int
}

// RebuildSearchIndexTask reloads every library book into the search index.
type RebuildSearchIndexTask struct {
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for index rebuild tasks.
func (t RebuildSearchIndexTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueRebuildSearchIndex,
		MaxAttempts: 2,
		Backoff:     30 * time.Second,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RebuildSearchIndexProcessor creates a processor function for RebuildSearchIndexTask.
func RebuildSearchIndexProcessor(index IndexRebuilder) backlite.QueueProcessor[RebuildSearchIndexTask] {
	return func(ctx context.Context, task RebuildSearchIndexTask) error {
		if index == nil {
			return fmt.Errorf("search index not configured")
		}

		if err := index.RebuildIndex(ctx); err != nil {
			return fmt.Errorf("rebuild search index: %w", err)
		}

		log.Printf("[TASK] Rebuilt search index (%s): %d books indexed", task.Reason, index.Size())
		return nil
	}
}

// NewRebuildSearchIndexQueue creates a backlite queue for index rebuild tasks.
func NewRebuildSearchIndexQueue(index IndexRebuilder) backlite.Queue {
	return backlite.NewQueue(RebuildSearchIndexProcessor(index))
}
