package scheduler

import (
	"sync"

	"github.com/Anujyadav911/TaskWeave/internal/task"
)

// RoundRobinScheduler is a FIFO queue: Next returns the longest-waiting
// task, ignoring priority. If submitter A's Submit(x) happens-before
// submitter B's Submit(y), x is pulled before y.
type RoundRobinScheduler struct {
	mu    sync.Mutex
	queue []*task.Task
}

// NewRoundRobinScheduler constructs an empty round-robin scheduler.
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

func (s *RoundRobinScheduler) Submit(t *task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, t)
}

func (s *RoundRobinScheduler) Next() (*task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, false
	}
	t := s.queue[0]
	s.queue = s.queue[1:]
	return t, true
}

func (s *RoundRobinScheduler) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) == 0
}
