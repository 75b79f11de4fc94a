package backup

import "context"

// Job runs backups on a schedule.
type Job struct {
	svc *Service
}

// NewJob wraps the service for the scheduler.
func NewJob(svc *Service) *Job {
	return &Job{svc: svc}
}

// Name implements scheduler.Job.
func (j *Job) Name() string { return "backup" }

// Run performs a full backup.
func (j *Job) Run() error {
	_, err := j.svc.Run(context.Background())
	return err
}
