// Package pool implements the worker pool: a fixed number of worker
// goroutines draining a scheduler, executing tasks, retrying failures with
// linear backoff, recording metrics, and supporting graceful and forced
// shutdown. Grounded on the teacher's internal/worker.Worker task loop and
// on original_source/src/executor/ThreadPool.cpp's condition-variable idle
// wait with a bounded timeout.
package pool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Anujyadav911/TaskWeave/internal/metrics"
	"github.com/Anujyadav911/TaskWeave/internal/registry"
	"github.com/Anujyadav911/TaskWeave/internal/scheduler"
	"github.com/Anujyadav911/TaskWeave/internal/task"
	"go.uber.org/zap"
)

const (
	idleWaitTimeout = 50 * time.Millisecond
	backoffUnit     = 50 * time.Millisecond
)

// Observer receives task lifecycle events as they happen. The pool never
// depends on an observer for correctness — SetObserver is optional, and a
// nil observer is a silent no-op. persistence.Store satisfies this
// interface structurally.
type Observer interface {
	Started(taskID, workerID int)
	Completed(taskID, retryCount int)
	Failed(taskID, retryCount int, errMsg string)
}

// Pool owns N worker goroutines and the scheduler they drain.
type Pool struct {
	n         int
	scheduler scheduler.Scheduler
	registry  *registry.Registry
	metrics   *metrics.Metrics
	logger    *zap.Logger
	observer  Observer

	wg sync.WaitGroup

	stopAccepting atomic.Bool
	forceStop     atomic.Bool

	notify chan struct{}

	// events carries observer callbacks off the worker hot path onto a
	// single background goroutine, so a slow persistence write never
	// throttles task execution. eventsDone closes once that goroutine has
	// drained every event queued before Shutdown/ShutdownNow closed events.
	events     chan func()
	eventsDone chan struct{}
}

// New constructs a pool of n workers draining sched. It does not start the
// workers — call Start.
func New(n int, sched scheduler.Scheduler, reg *registry.Registry, m *metrics.Metrics, logger *zap.Logger) *Pool {
	return &Pool{
		n:          n,
		scheduler:  sched,
		registry:   reg,
		metrics:    m,
		logger:     logger,
		notify:     make(chan struct{}, n),
		events:     make(chan func(), 256),
		eventsDone: make(chan struct{}),
	}
}

// Start launches the N worker goroutines and, if an observer is installed,
// the background event-delivery goroutine.
func (p *Pool) Start() {
	if p.observer != nil {
		go p.eventLoop()
	} else {
		close(p.eventsDone)
	}
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go p.workerLoop(i + 1)
	}
}

func (p *Pool) eventLoop() {
	defer close(p.eventsDone)
	for fn := range p.events {
		fn()
	}
}

// enqueueEvent hands an observer callback to the background event
// goroutine. Only called when an observer is installed.
func (p *Pool) enqueueEvent(fn func()) {
	p.events <- fn
}

// Size returns N, the fixed worker count.
func (p *Pool) Size() int { return p.n }

// SetObserver installs the optional lifecycle observer. Must be called
// before Start, which decides whether to launch the event-delivery
// goroutine based on whether an observer is present.
func (p *Pool) SetObserver(o Observer) { p.observer = o }

// Submit places t into the scheduler after stamping it READY, and wakes an
// idle worker. If the pool is not currently accepting (post-shutdown), the
// submission is silently dropped.
func (p *Pool) Submit(t *task.Task) {
	if p.stopAccepting.Load() {
		return
	}
	t.MarkReady()
	p.scheduler.Submit(t)
	p.wake()
}

func (p *Pool) wake() {
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Shutdown stops accepting new work, lets in-flight attempts complete,
// drains the scheduler, joins all workers, then waits for every queued
// observer event to be delivered.
func (p *Pool) Shutdown() {
	p.stopAccepting.Store(true)
	p.wake()
	p.wg.Wait()
	p.drainEvents()
}

// ShutdownNow stops accepting new work and signals workers to stop after
// their current attempt, even if work remains in the scheduler, then joins
// and waits for queued observer events to be delivered.
func (p *Pool) ShutdownNow() {
	p.stopAccepting.Store(true)
	p.forceStop.Store(true)
	p.wake()
	p.wg.Wait()
	p.drainEvents()
}

func (p *Pool) drainEvents() {
	if p.observer != nil {
		close(p.events)
	}
	<-p.eventsDone
}

func (p *Pool) workerLoop(workerID int) {
	defer p.wg.Done()
	for {
		if p.forceStop.Load() {
			return
		}

		t, ok := p.scheduler.Next()
		if ok {
			p.runTask(workerID, t)
			continue
		}

		if p.stopAccepting.Load() {
			return
		}

		select {
		case <-p.notify:
		case <-time.After(idleWaitTimeout):
		}
	}
}

func (p *Pool) runTask(workerID int, t *task.Task) error {
	if p.observer != nil {
		p.enqueueEvent(func() { p.observer.Started(t.ID, workerID) })
	}

	err := t.Execute(workerID)
	if err == nil {
		snap := t.Snapshot()
		p.metrics.Record(snap)
		if p.observer != nil {
			p.enqueueEvent(func() { p.observer.Completed(t.ID, snap.RetryCount) })
		}
		return nil
	}

	p.logger.Warn("task attempt failed", zap.Int("task_id", t.ID), zap.Error(err))

	if t.ShouldRetry() {
		t.MarkRetry()
		retryCount := t.RetryCount()
		time.Sleep(time.Duration(retryCount) * backoffUnit)
		p.scheduler.Submit(t)
		p.wake()
		return err
	}

	t.MarkFailed()
	snap := t.Snapshot()
	p.metrics.Record(snap)
	if p.observer != nil {
		errMsg := err.Error()
		p.enqueueEvent(func() { p.observer.Failed(t.ID, snap.RetryCount, errMsg) })
	}
	return err
}
