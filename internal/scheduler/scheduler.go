// Package scheduler provides the ordered-buffer abstraction the worker pool
// drains: a uniform submit/next/empty contract with two concrete
// disciplines, mirroring the interface-plus-factory shape this corpus uses
// for pluggable dispatch strategies (see the teacher's
// pkg/loadbalancer.LoadBalancer).
package scheduler

import "github.com/Anujyadav911/TaskWeave/internal/task"

// Discipline names a concrete scheduler implementation, resolved by New.
type Discipline string

const (
	Priority   Discipline = "priority"
	RoundRobin Discipline = "roundrobin"
)

// Scheduler is an ordered buffer of ready tasks. Both concrete disciplines
// are thread-safe and support concurrent Submit and Next.
type Scheduler interface {
	// Submit places a task into the scheduler. The caller must have already
	// stamped the task READY before calling Submit.
	Submit(t *task.Task)
	// Next removes and returns the next task per the discipline's pull
	// order. Next on an empty scheduler returns (nil, false), so callers
	// need not check Empty first.
	Next() (*task.Task, bool)
	// Empty reports whether the scheduler currently holds no tasks.
	Empty() bool
}

// New resolves a Discipline to a concrete Scheduler, defaulting to
// round-robin for an unrecognized value — mirroring the teacher's
// loadbalancer.NewLoadBalancer fallback-to-default behavior.
func New(d Discipline) Scheduler {
	switch d {
	case Priority:
		return NewPriorityScheduler()
	case RoundRobin:
		return NewRoundRobinScheduler()
	default:
		return NewRoundRobinScheduler()
	}
}
