// Package registry holds the process-wide mapping from task id to live
// task handle that external queries (HTTP reads) and internal components
// (worker pool, metrics) share.
package registry

import (
	"fmt"
	"sync"

	"github.com/Anujyadav911/TaskWeave/internal/task"
)

// ErrAlreadyRegistered is returned by Register when the id already has a
// live handle.
var ErrAlreadyRegistered = fmt.Errorf("task id already registered")

// Registry is a single-lock id -> *task.Task map. It holds a shared
// handle, not ownership — the scheduler and worker pool transitively
// mutate the same handle the registry returns.
type Registry struct {
	mu    sync.RWMutex
	tasks map[int]*task.Task
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{tasks: make(map[int]*task.Task)}
}

// Register inserts t under t.ID, failing if that id is already present.
func (r *Registry) Register(t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tasks[t.ID]; exists {
		return ErrAlreadyRegistered
	}
	r.tasks[t.ID] = t
	return nil
}

// Get returns the handle for id, or nil if not present.
func (r *Registry) Get(id int) *task.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tasks[id]
}

// All returns every registered task handle, in no particular order.
func (r *Registry) All() []*task.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*task.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	return out
}

// ByState returns every registered task currently in the given state.
func (r *Registry) ByState(s task.State) []*task.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*task.Task, 0)
	for _, t := range r.tasks {
		if t.State() == s {
			out = append(out, t)
		}
	}
	return out
}

// Clear empties the registry. Intended for tests only.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = make(map[int]*task.Task)
}

// Size returns the number of registered tasks.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}
