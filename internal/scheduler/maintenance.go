package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/printingpress/internal/tasks"
)

// DefaultMaintenanceSchedule runs maintenance daily at 03:00.
const DefaultMaintenanceSchedule = "0 3 * * *"

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer saves tasks to the background queue.
type Enqueuer interface {
	Enqueue(tasks ...backlite.Task) error
}

// MaintenanceScheduler periodically enqueues orphan file cleanup and a
// search index rebuild.
type MaintenanceScheduler struct {
	queue    Enqueuer
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a new scheduler instance
func NewMaintenanceScheduler(queue Enqueuer, schedule string) *MaintenanceScheduler {
	if schedule == "" {
		schedule = DefaultMaintenanceSchedule
	}
	return &MaintenanceScheduler{
		queue:    queue,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start begins the scheduler. It stops when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runMaintenance()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(s.entryID).Next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Maintenance scheduler: stopped")
}

// RunNow enqueues the maintenance tasks immediately.
func (s *MaintenanceScheduler) RunNow() error {
	return s.enqueue()
}

// IsRunning returns whether the scheduler is active
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when maintenance will next run, or nil when stopped.
func (s *MaintenanceScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *MaintenanceScheduler) runMaintenance() {
	if err := s.enqueue(); err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue tasks: %v", err)
		return
	}
	log.Printf("Maintenance scheduler: enqueued maintenance tasks")
}

func (s *MaintenanceScheduler) enqueue() error {
	return s.queue.Enqueue(
		tasks.CleanupOrphanFilesTask{},
		tasks.RebuildSearchIndexTask{Reason: "scheduled"},
	)
}
