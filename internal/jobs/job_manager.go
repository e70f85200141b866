package jobs

import (
	"fmt"
)

type scheduledJob interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  scheduledJob
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []namedJob
	started []scheduledJob
}

// NewJobManager creates a job manager. catalogSyncJob is nil when the catalog is only
// pushed over HTTP; cartPurgeJob is nil when carts live in a store with its own expiry.
func NewJobManager(idempotencyPurgeJob *IdempotencyPurgeJob, catalogSyncJob *CatalogSyncJob, cartPurgeJob *CartPurgeJob) *JobManager {
	jm := &JobManager{jobs: []namedJob{{name: "idempotency purge", job: idempotencyPurgeJob}}}
	if catalogSyncJob != nil {
		jm.jobs = append(jm.jobs, namedJob{name: "catalog sync", job: catalogSyncJob})
	}
	if cartPurgeJob != nil {
		jm.jobs = append(jm.jobs, namedJob{name: "cart purge", job: cartPurgeJob})
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start; jobs already started are stopped again.
func (jm *JobManager) StartAll() error {
	for _, j := range jm.jobs {
		if err := j.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", j.name, err)
		}
		jm.started = append(jm.started, j.job)
	}
	return nil
}

// StopAll stops the started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}
