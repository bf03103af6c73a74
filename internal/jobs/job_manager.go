package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	escrowReleaseJob *EscrowReleaseJob
}

func NewJobManager(escrowReleaser EscrowReleaser, escrowSchedule string, logger *slog.Logger) *JobManager {
	return &JobManager{
		escrowReleaseJob: NewEscrowReleaseJob(escrowReleaser, escrowSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.escrowReleaseJob.Start(); err != nil {
		return fmt.Errorf("failed to start escrow release job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.escrowReleaseJob.Stop()
}
