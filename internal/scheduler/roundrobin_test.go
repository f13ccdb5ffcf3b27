package scheduler

import (
	"sync"
	"testing"

	"github.com/Anujyadav911/TaskWeave/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinIsFIFORegardlessOfPriority(t *testing.T) {
	s := NewRoundRobinScheduler()
	first := task.New(1, task.Low, nil, 0)
	second := task.New(2, task.High, nil, 0)
	first.MarkReady()
	second.MarkReady()

	s.Submit(first)
	s.Submit(second)

	out1, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, first.ID, out1.ID)

	out2, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, second.ID, out2.ID)
}

func TestRoundRobinConcurrentSubmittersLoseNothing(t *testing.T) {
	s := NewRoundRobinScheduler()
	const submitters = 8
	const perSubmitter = 50

	var wg sync.WaitGroup
	wg.Add(submitters)
	for k := 0; k < submitters; k++ {
		go func(base int) {
			defer wg.Done()
			for m := 0; m < perSubmitter; m++ {
				tk := task.New(base*perSubmitter+m, task.Medium, nil, 0)
				tk.MarkReady()
				s.Submit(tk)
			}
		}(k)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for {
		tk, ok := s.Next()
		if !ok {
			break
		}
		assert.False(t, seen[tk.ID], "duplicate task pulled: %d", tk.ID)
		seen[tk.ID] = true
	}
	assert.Len(t, seen, submitters*perSubmitter)
}
