package cron

import (
	"context"
	"time"

	"github.com/orgpulse/attendance-backend-go/internal/service/sweeper"
)

// SweeperJobs contains the scheduled stale-session sweep.
type SweeperJobs struct {
	sweeper  *sweeper.Sweeper
	interval time.Duration
}

func NewSweeperJobs(swp *sweeper.Sweeper, interval time.Duration) *SweeperJobs {
	return &SweeperJobs{
		sweeper:  swp,
		interval: interval,
	}
}

// RegisterJobs registers the sweep with the scheduler. The sweep is
// idempotent, so overlapping with the inline pre-request sweeps is harmless.
func (j *SweeperJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sweep_stale_sessions", j.interval, j.SweepStaleSessions)
}

func (j *SweeperJobs) SweepStaleSessions(ctx context.Context) error {
	return j.sweeper.SweepAll(ctx)
}
