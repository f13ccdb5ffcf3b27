package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultsUnrecognizedDisciplineToRoundRobin(t *testing.T) {
	s := New(Discipline("bogus"))
	_, ok := s.(*RoundRobinScheduler)
	assert.True(t, ok)
}

func TestNewResolvesKnownDisciplines(t *testing.T) {
	_, ok := New(Priority).(*PriorityScheduler)
	assert.True(t, ok)

	_, ok = New(RoundRobin).(*RoundRobinScheduler)
	assert.True(t, ok)
}
