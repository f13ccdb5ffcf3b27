// Package task defines the central unit of work TaskWeave schedules and
// executes: identity, priority, lifecycle state machine, timing, and retry
// accounting.
package task

import (
	"fmt"
	"sync"
	"time"
)

// Priority orders tasks within the priority scheduling discipline.
// Numerically higher priorities are pulled first.
type Priority int

const (
	Low Priority = iota
	Medium
	High
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "LOW"
	case High:
		return "HIGH"
	default:
		return "MEDIUM"
	}
}

// ParsePriority maps a case-sensitive string to a Priority. ok is false for
// anything outside {LOW, MEDIUM, HIGH}; callers fall back to Medium.
func ParsePriority(s string) (p Priority, ok bool) {
	switch s {
	case "LOW":
		return Low, true
	case "MEDIUM":
		return Medium, true
	case "HIGH":
		return High, true
	default:
		return Medium, false
	}
}

// State is the task's position in its lifecycle. The numeric values are
// fixed and part of the HTTP wire contract — do not reorder.
type State int

const (
	Created   State = 0
	Ready     State = 1
	Running   State = 2
	Completed State = 3
	Failed    State = 4
	Retrying  State = 5
)

func (s State) String() string {
	switch s {
	case Created:
		return "CREATED"
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Completed:
		return "COMPLETED"
	case Failed:
		return "FAILED"
	case Retrying:
		return "RETRYING"
	default:
		return "UNKNOWN"
	}
}

// Payload is the opaque, re-runnable unit of work a Task carries. Execute
// must be safe to invoke again after a failed attempt.
type Payload interface {
	Execute() error
}

// PayloadFunc adapts a plain function to the Payload interface.
type PayloadFunc func() error

func (f PayloadFunc) Execute() error { return f() }

// Task is the central entity. Invariant fields (ID, Priority, Payload,
// MaxRetries) are set at construction and never mutated afterward; mutable
// fields (state, counts, timestamps, WorkerID) are mutated only by the
// worker currently executing the task, guarded by mu for readers.
type Task struct {
	ID         int
	Name       string
	Priority   Priority
	Payload    Payload
	MaxRetries int

	mu          sync.Mutex
	state       State
	retryCount  int
	enqueueTime time.Time
	startTime   time.Time
	endTime     time.Time
	workerID    int
}

// New constructs a Task in the CREATED state. maxRetries is not clamped
// here — callers (the loader, direct API users) are responsible for
// validating it against [0, 100] per the definition table.
func New(id int, priority Priority, payload Payload, maxRetries int) *Task {
	return &Task{
		ID:         id,
		Priority:   priority,
		Payload:    payload,
		MaxRetries: maxRetries,
		state:      Created,
	}
}

// canTransition reports whether the lifecycle allows from -> to. All
// disallowed transitions are no-ops at the call site, not errors.
func canTransition(from, to State) bool {
	switch from {
	case Created:
		return to == Ready
	case Ready:
		return to == Running || to == Ready
	case Running:
		return to == Completed || to == Failed
	case Failed:
		return to == Retrying
	case Retrying:
		return to == Ready
	default:
		return false
	}
}

// MarkReady transitions CREATED->READY or RETRYING->READY, stamping
// enqueueTime; on a task already READY it re-stamps enqueueTime. No-op
// from any other state.
func (t *Task) MarkReady() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !canTransition(t.state, Ready) {
		return
	}
	t.state = Ready
	t.enqueueTime = time.Now()
}

// Execute is idempotent relative to state: if the task is not READY it
// returns nil without effect. On entry it stamps startTime and moves to
// RUNNING; on return it transitions to COMPLETED or FAILED and stamps
// endTime and workerID. A panic inside the payload is recovered and
// reported as an ordinary error so the worker pool's retry loop treats
// every failure surface uniformly.
func (t *Task) Execute(workerID int) (err error) {
	t.mu.Lock()
	if !canTransition(t.state, Running) {
		t.mu.Unlock()
		return nil
	}
	t.state = Running
	t.startTime = time.Now()
	t.mu.Unlock()

	err = t.invokePayload()

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.state = Failed
	} else {
		t.state = Completed
	}
	t.endTime = time.Now()
	t.workerID = workerID
	return err
}

func (t *Task) invokePayload() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("payload panicked: %v", r)
		}
	}()
	return t.Payload.Execute()
}

// ShouldRetry reports whether another attempt is permitted.
func (t *Task) ShouldRetry() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.retryCount < t.MaxRetries
}

// MarkRetry requires state FAILED and retryCount < MaxRetries; it
// increments retryCount and transitions FAILED->RETRYING->READY,
// re-stamping enqueueTime. No-op otherwise.
func (t *Task) MarkRetry() {
	t.mu.Lock()
	if t.state != Failed || t.retryCount >= t.MaxRetries {
		t.mu.Unlock()
		return
	}
	if !canTransition(t.state, Retrying) {
		t.mu.Unlock()
		return
	}
	t.retryCount++
	t.state = Retrying
	t.mu.Unlock()

	t.MarkReady()
}

// MarkFailed forces the terminal FAILED state once the retry budget is
// exhausted.
func (t *Task) MarkFailed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Failed
}

// Snapshot is a value-type view of a Task's mutable fields, safe to read
// without holding the task's lock after it is returned.
type Snapshot struct {
	ID          int
	Name        string
	Priority    Priority
	State       State
	RetryCount  int
	MaxRetries  int
	EnqueueTime time.Time
	StartTime   time.Time
	EndTime     time.Time
	WorkerID    int
}

// Snapshot returns a consistent point-in-time copy of the task's fields.
func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		ID:          t.ID,
		Name:        t.Name,
		Priority:    t.Priority,
		State:       t.state,
		RetryCount:  t.retryCount,
		MaxRetries:  t.MaxRetries,
		EnqueueTime: t.enqueueTime,
		StartTime:   t.startTime,
		EndTime:     t.endTime,
		WorkerID:    t.workerID,
	}
}

// State returns the current lifecycle state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// EnqueueTime returns the last-stamped enqueue time, used by the priority
// scheduler's tie-break.
func (t *Task) EnqueueTime() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enqueueTime
}

// RetryCount returns the current retry count.
func (t *Task) RetryCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.retryCount
}
