package metrics

import (
	"testing"
	"time"

	"github.com/Anujyadav911/TaskWeave/internal/task"
	"github.com/stretchr/testify/assert"
)

func TestRecordIgnoresSnapshotsThatNeverRan(t *testing.T) {
	m := New()
	m.Record(task.Snapshot{ID: 1, State: task.Created})
	assert.Equal(t, uint64(0), m.Summary().Total)
}

func TestRecordAggregatesCompletedAndFailed(t *testing.T) {
	m := New()
	now := time.Now()

	m.Record(task.Snapshot{
		ID: 1, State: task.Completed,
		EnqueueTime: now, StartTime: now.Add(10 * time.Millisecond), EndTime: now.Add(30 * time.Millisecond),
	})
	m.Record(task.Snapshot{
		ID: 2, State: task.Failed, RetryCount: 2,
		EnqueueTime: now, StartTime: now.Add(5 * time.Millisecond), EndTime: now.Add(15 * time.Millisecond),
	})

	s := m.Summary()
	assert.Equal(t, uint64(2), s.Total)
	assert.Equal(t, uint64(1), s.Completed)
	assert.Equal(t, uint64(1), s.FailedFinal)
	assert.Equal(t, uint64(2), s.RetriesTotal)
}

func TestRecordTracksMinAndMaxExec(t *testing.T) {
	m := New()
	now := time.Now()

	m.Record(task.Snapshot{State: task.Completed, EnqueueTime: now, StartTime: now, EndTime: now.Add(100 * time.Millisecond)})
	m.Record(task.Snapshot{State: task.Completed, EnqueueTime: now, StartTime: now, EndTime: now.Add(5 * time.Millisecond)})

	s := m.Summary()
	assert.Equal(t, 5*time.Millisecond, s.MinExec)
	assert.Equal(t, 100*time.Millisecond, s.MaxExec)
}
