// Package metrics aggregates per-task timings and terminal outcomes behind
// a single lock, grounded on the teacher's common.WorkerStats /
// common.SchedulerStats snapshot-struct shape.
package metrics

import (
	"sync"
	"time"

	"github.com/Anujyadav911/TaskWeave/internal/task"
	"go.uber.org/zap"
)

// Summary is a point-in-time snapshot of the aggregate.
type Summary struct {
	Total        uint64
	Completed    uint64
	FailedFinal  uint64
	RetriesTotal uint64
	TotalWait    time.Duration
	TotalExec    time.Duration
	MinExec      time.Duration
	MaxExec      time.Duration
}

// Metrics is the single-lock aggregator described in spec §4.3.
type Metrics struct {
	mu sync.Mutex

	total        uint64
	completed    uint64
	failedFinal  uint64
	retriesTotal uint64

	totalWait time.Duration
	totalExec time.Duration

	minExec      time.Duration
	maxExec      time.Duration
	hasExecSample bool
}

// New constructs an empty aggregate.
func New() *Metrics {
	return &Metrics{}
}

// Record ingests a task's terminal snapshot. If the task never reached
// RUNNING (any of enqueue/start/end is zero-valued) the record is silently
// ignored — metrics measure executed attempts, not dropped submissions.
func (m *Metrics) Record(snap task.Snapshot) {
	if snap.EnqueueTime.IsZero() || snap.StartTime.IsZero() || snap.EndTime.IsZero() {
		return
	}

	wait := snap.StartTime.Sub(snap.EnqueueTime)
	exec := snap.EndTime.Sub(snap.StartTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.retriesTotal += uint64(snap.RetryCount)
	switch snap.State {
	case task.Completed:
		m.completed++
	case task.Failed:
		m.failedFinal++
	}

	m.totalWait += wait
	m.totalExec += exec

	if !m.hasExecSample {
		m.minExec, m.maxExec = exec, exec
		m.hasExecSample = true
	} else {
		if exec > m.maxExec {
			m.maxExec = exec
		}
		if exec < m.minExec {
			m.minExec = exec
		}
	}
}

// Summary returns the current aggregate.
func (m *Metrics) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summary{
		Total:        m.total,
		Completed:    m.completed,
		FailedFinal:  m.failedFinal,
		RetriesTotal: m.retriesTotal,
		TotalWait:    m.totalWait,
		TotalExec:    m.totalExec,
		MinExec:      m.minExec,
		MaxExec:      m.maxExec,
	}
}

// LogSummary writes a human-readable summary block via logger, mirroring
// the original implementation's Metrics::printSummary.
func (m *Metrics) LogSummary(logger *zap.Logger) {
	s := m.Summary()
	if s.Total == 0 {
		logger.Info("metrics summary: no tasks were executed")
		return
	}

	avgWaitMs := float64(s.TotalWait.Microseconds()) / (1000.0 * float64(s.Total))
	avgExecMs := float64(s.TotalExec.Microseconds()) / (1000.0 * float64(s.Total))

	logger.Info("metrics summary",
		zap.Uint64("tasks_executed", s.Total),
		zap.Uint64("completed", s.Completed),
		zap.Uint64("failed", s.FailedFinal),
		zap.Uint64("total_retries", s.RetriesTotal),
		zap.Float64("avg_wait_ms", avgWaitMs),
		zap.Float64("avg_exec_ms", avgExecMs),
		zap.Duration("max_exec", s.MaxExec),
		zap.Duration("min_exec", s.MinExec),
	)
}
