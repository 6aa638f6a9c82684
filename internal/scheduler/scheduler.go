// Package scheduler drives the periodic ladder refresh: a single cron
// entry running the refresh job, which pulls market data, optimizes, and
// publishes the result.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Runner owns the cron loop for the refresh job. A failed tick is logged
// and the next tick retries; the job guarantees the last good result
// stays published across failures.
type Runner struct {
	cron *cron.Cron
	job  *RefreshLaddersJob
	log  zerolog.Logger
}

// NewRunner registers the refresh job on the given cron schedule, e.g.
// "@every 30s" or "0 */5 * * *". Returns an error for unparsable schedules.
func NewRunner(schedule string, job *RefreshLaddersJob, log zerolog.Logger) (*Runner, error) {
	r := &Runner{
		cron: cron.New(),
		job:  job,
		log:  log.With().Str("component", "scheduler").Logger(),
	}

	if _, err := r.cron.AddFunc(schedule, r.tick); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	r.log.Info().Str("schedule", schedule).Msg("Refresh job registered")
	return r, nil
}

func (r *Runner) tick() {
	if err := r.job.Run(); err != nil {
		r.log.Error().Err(err).Msg("Ladder refresh failed")
	}
}

// Prime runs one refresh synchronously so the store holds a result before
// the first scheduled tick. The caller decides whether a failure is fatal.
func (r *Runner) Prime() error {
	return r.job.Run()
}

// Start begins the schedule.
func (r *Runner) Start() {
	r.cron.Start()
	r.log.Info().Msg("Scheduler started")
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	r.log.Info().Msg("Scheduler stopped")
}
