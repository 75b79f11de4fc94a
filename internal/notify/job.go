package notify

import (
	"time"

	"github.com/rs/zerolog"
)

// Job runs the rule engine on a schedule.
type Job struct {
	engine *Engine
	log    zerolog.Logger
}

// NewJob wraps the engine for the scheduler.
func NewJob(engine *Engine, log zerolog.Logger) *Job {
	return &Job{
		engine: engine,
		log:    log.With().Str("job", "notifications").Logger(),
	}
}

// retentionDays is how long read notifications are kept before the
// scheduled run deletes them.
const retentionDays = 90

// Name returns the job name.
func (j *Job) Name() string { return "notifications" }

// Run evaluates every rule once, then drops read notifications past
// retention.
func (j *Job) Run() error {
	created, err := j.engine.EvaluateAll(time.Now())
	if err != nil {
		return err
	}
	if len(created) > 0 {
		j.log.Info().Int("created", len(created)).Msg("notifications generated")
	}

	purged, err := j.engine.PruneRead(time.Now().AddDate(0, 0, -retentionDays))
	if err != nil {
		return err
	}
	if purged > 0 {
		j.log.Info().Int64("purged", purged).Msg("old notifications removed")
	}
	return nil
}
