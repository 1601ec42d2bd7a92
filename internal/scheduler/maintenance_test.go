package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/printingpress/internal/tasks"
)

type fakeQueue struct {
	mu    sync.Mutex
	added []backlite.Task
	err   error
}

func (f *fakeQueue) Enqueue(ts ...backlite.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, ts...)
	return nil
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule(DefaultMaintenanceSchedule))
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.Error(t, ValidateSchedule("not a schedule"))
	assert.Error(t, ValidateSchedule("0 0 3 * * *"), "seconds field is not accepted")
}

func TestMaintenanceScheduler_StartStop(t *testing.T) {
	s := NewMaintenanceScheduler(&fakeQueue{}, "")

	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())

	require.NoError(t, s.Start(context.Background()), "second start is a no-op")

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestMaintenanceScheduler_InvalidSchedule(t *testing.T) {
	s := NewMaintenanceScheduler(&fakeQueue{}, "every day")

	err := s.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestMaintenanceScheduler_RunNow(t *testing.T) {
	queue := &fakeQueue{}
	s := NewMaintenanceScheduler(queue, DefaultMaintenanceSchedule)

	require.NoError(t, s.RunNow())

	require.Len(t, queue.added, 2)
	assert.IsType(t, tasks.CleanupOrphanFilesTask{}, queue.added[0])
	assert.Equal(t, tasks.RebuildSearchIndexTask{Reason: "scheduled"}, queue.added[1])

	queue.err = errors.New("queue closed")
	assert.Error(t, s.RunNow())
}
