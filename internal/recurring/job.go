package recurring

import (
	"time"

	"github.com/rs/zerolog"
)

// Job runs the materializer on a schedule.
type Job struct {
	svc *Service
	log zerolog.Logger
}

// NewJob wraps the service for the scheduler.
func NewJob(svc *Service, log zerolog.Logger) *Job {
	return &Job{svc: svc, log: log.With().Str("job", "recurring").Logger()}
}

// Name implements scheduler.Job.
func (j *Job) Name() string { return "recurring" }

// Run materializes everything due as of now.
func (j *Job) Run() error {
	_, err := j.svc.MaterializeDue(time.Now())
	return err
}
