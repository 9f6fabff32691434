package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts six-field expressions with seconds and descriptors such as "@every 1s".
var scheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	offerRefreshJob    *OfferRefreshJob
	courierTrackingJob *CourierTrackingJob
}

// NewJobManager wires the jobs built by the composition root.
func NewJobManager(offerRefreshJob *OfferRefreshJob, courierTrackingJob *CourierTrackingJob) *JobManager {
	return &JobManager{
		offerRefreshJob:    offerRefreshJob,
		courierTrackingJob: courierTrackingJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.offerRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start offer refresh job: %w", err)
	}

	if err := jm.courierTrackingJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.offerRefreshJob.Stop()
		return fmt.Errorf("failed to start courier tracking job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.courierTrackingJob.Stop()
	jm.offerRefreshJob.Stop()
}
