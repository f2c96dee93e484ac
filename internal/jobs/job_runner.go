package jobs

import (
	"time"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/metrics"
	"toolrental-backend/internal/repository"
	"toolrental-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals   repository.RentalRepository
	publisher service.RentalPublisher
	metrics   *metrics.Metrics
	config    *config.Config
	now       func() time.Time
}

// NewJobRunner creates a new job runner. publisher and m may be nil.
func NewJobRunner(rentals repository.RentalRepository, publisher service.RentalPublisher, m *metrics.Metrics, cfg *config.Config) *JobRunner {
	return &JobRunner{
		rentals:   rentals,
		publisher: publisher,
		metrics:   m,
		config:    cfg,
		now:       time.Now,
	}
}

// Config returns the configuration the jobs were built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkOverdueRentals()
}
