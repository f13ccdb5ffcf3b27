package scheduler

import (
	"testing"

	"github.com/Anujyadav911/TaskWeave/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityOrdersHighBeforeEarlierEnqueuedLow(t *testing.T) {
	s := NewPriorityScheduler()
	low := task.New(1, task.Low, nil, 0)
	high := task.New(2, task.High, nil, 0)
	low.MarkReady()
	high.MarkReady()

	s.Submit(low)
	s.Submit(high)

	first, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, high.ID, first.ID)

	second, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, low.ID, second.ID)
}

func TestPriorityEqualPriorityBreaksTieOnEnqueueOrder(t *testing.T) {
	s := NewPriorityScheduler()
	a := task.New(5, task.Medium, nil, 0)
	b := task.New(3, task.Medium, nil, 0)
	a.MarkReady()
	b.MarkReady()

	s.Submit(a)
	s.Submit(b)

	first, _ := s.Next()
	second, _ := s.Next()
	assert.Equal(t, a.ID, first.ID)
	assert.Equal(t, b.ID, second.ID)
}

func TestPriorityEmptyReportsAccurately(t *testing.T) {
	s := NewPriorityScheduler()
	assert.True(t, s.Empty())

	tk := task.New(1, task.Low, nil, 0)
	tk.MarkReady()
	s.Submit(tk)
	assert.False(t, s.Empty())

	_, ok := s.Next()
	require.True(t, ok)
	assert.True(t, s.Empty())

	_, ok = s.Next()
	assert.False(t, ok)
}
