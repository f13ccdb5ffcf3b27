package scheduler

import (
	"container/heap"
	"sync"

	"github.com/Anujyadav911/TaskWeave/internal/task"
)

// priorityHeap backs PriorityScheduler's container/heap.Interface, keyed by
// (priority desc, enqueueTime asc, id asc) per spec.
type priorityHeap []*task.Task

func (h priorityHeap) Len() int { return len(h) }

func (h priorityHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	at, bt := a.EnqueueTime(), b.EnqueueTime()
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return a.ID < b.ID
}

func (h priorityHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *priorityHeap) Push(x any) {
	*h = append(*h, x.(*task.Task))
}

func (h *priorityHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// PriorityScheduler is a max-heap keyed on (priority desc, enqueueTime asc,
// id asc). A higher-priority task is always pulled before a lower-priority
// one co-resident at the pull moment; no starvation guarantee across
// priorities is offered.
type PriorityScheduler struct {
	mu sync.Mutex
	h  priorityHeap
}

// NewPriorityScheduler constructs an empty priority scheduler.
func NewPriorityScheduler() *PriorityScheduler {
	s := &PriorityScheduler{}
	heap.Init(&s.h)
	return s
}

func (s *PriorityScheduler) Submit(t *task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	heap.Push(&s.h, t)
}

func (s *PriorityScheduler) Next() (*task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.h.Len() == 0 {
		return nil, false
	}
	t := heap.Pop(&s.h).(*task.Task)
	return t, true
}

func (s *PriorityScheduler) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Len() == 0
}
