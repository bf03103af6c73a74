package jobs

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultEscrowSweepSchedule runs the sweep every five minutes.
const DefaultEscrowSweepSchedule = "0 */5 * * * *"

const escrowSweepBatchSize = 200

type EscrowReleaser interface {
	Handle(ctx context.Context, cmd commands.ReleaseEscrowCommand) (int, error)
}

// EscrowReleaseJob periodically releases held escrow that became eligible,
// either confirmed by the customer or past its auto-release time.
type EscrowReleaseJob struct {
	handler  EscrowReleaser
	schedule string
	cron     *cron.Cron
	now      func() time.Time
	logger   *slog.Logger
}

// NewEscrowReleaseJob creates the sweep job. schedule is a six-field cron
// expression with seconds; an empty schedule uses DefaultEscrowSweepSchedule.
func NewEscrowReleaseJob(handler EscrowReleaser, schedule string, logger *slog.Logger) *EscrowReleaseJob {
	if schedule == "" {
		schedule = DefaultEscrowSweepSchedule
	}
	return &EscrowReleaseJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		now:      time.Now,
		logger:   logger.With("component", "escrow_release_job"),
	}
}

func (j *EscrowReleaseJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Escrow release job started", "schedule", j.schedule)
	return nil
}

// Run performs a single sweep.
func (j *EscrowReleaseJob) Run() {
	ctx := context.Background()

	cmd, err := commands.NewReleaseEscrowCommand(j.now(), escrowSweepBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Escrow release job failed", "error", err)
		return
	}

	released, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Escrow release job failed", "error", err, "released", released)
		return
	}
	if released > 0 {
		j.logger.InfoContext(ctx, "Escrow released", "count", released)
	}
}

// Stop waits for a running sweep to finish.
func (j *EscrowReleaseJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Escrow release job stopped")
}
