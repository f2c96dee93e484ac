package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/jobs"
	"toolrental-backend/internal/repository/memory"
)

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{MarkOverdueRentals: "0 0 2 * * *"}}
	s, err := NewScheduler(jobs.NewJobRunner(memory.NewRentalRepository(), nil, nil, cfg))
	require.NoError(t, err)
	assert.True(t, s.IsRunning())

	s.Start()
	defer s.Stop()
	next := s.NextRun()
	assert.Equal(t, 2, next.Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestNewScheduler_BadSpec(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{MarkOverdueRentals: "every night"}}
	_, err := NewScheduler(jobs.NewJobRunner(memory.NewRentalRepository(), nil, nil, cfg))
	assert.Error(t, err)
}
