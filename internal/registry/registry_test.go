package registry

import (
	"sync"
	"testing"

	"github.com/Anujyadav911/TaskWeave/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsDuplicateID(t *testing.T) {
	r := New()
	t1 := task.New(1, task.Medium, nil, 0)
	t2 := task.New(1, task.High, nil, 0)

	require.NoError(t, r.Register(t1))
	err := r.Register(t2)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestGetReturnsNilForMissingID(t *testing.T) {
	r := New()
	assert.Nil(t, r.Get(999))
}

func TestByStateFiltersCorrectly(t *testing.T) {
	r := New()
	ready := task.New(1, task.Medium, nil, 0)
	ready.MarkReady()
	created := task.New(2, task.Medium, nil, 0)

	require.NoError(t, r.Register(ready))
	require.NoError(t, r.Register(created))

	readyOnes := r.ByState(task.Ready)
	assert.Len(t, readyOnes, 1)
	assert.Equal(t, 1, readyOnes[0].ID)
}

func TestConcurrentRegisterNoLoss(t *testing.T) {
	r := New()
	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(id int) {
			defer wg.Done()
			_ = r.Register(task.New(id, task.Medium, nil, 0))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, n, r.Size())
}
