package jobs

import (
	"context"

	"orderhub/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultIdempotencyPurgeSchedule runs the purge at minute 17 of every hour.
const DefaultIdempotencyPurgeSchedule = "0 17 * * * *"

type idempotencyPurger interface {
	Handle(ctx context.Context, cmd commands.PurgeIdempotencyKeysCommand) (int64, error)
}

// IdempotencyPurgeJob deletes idempotency keys that fell out of the replay window.
type IdempotencyPurgeJob struct {
	handler  idempotencyPurger
	schedule string
	cron     *cron.Cron
	logger   logrus.FieldLogger
}

func NewIdempotencyPurgeJob(handler idempotencyPurger, schedule string, logger logrus.FieldLogger) *IdempotencyPurgeJob {
	if schedule == "" {
		schedule = DefaultIdempotencyPurgeSchedule
	}
	logger = logger.WithField("component", "idempotency_purge_job")

	return &IdempotencyPurgeJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger)))),
		logger:   logger,
	}
}

func (j *IdempotencyPurgeJob) Run(ctx context.Context) {
	purged, err := j.handler.Handle(ctx, commands.NewPurgeIdempotencyKeysCommand())
	if err != nil {
		j.logger.WithError(err).Error("idempotency key purge failed")
		return
	}
	if purged > 0 {
		j.logger.WithField("purged", purged).Info("expired idempotency keys purged")
	}
}

func (j *IdempotencyPurgeJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithField("schedule", j.schedule).Info("idempotency purge job started")
	return nil
}

func (j *IdempotencyPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("idempotency purge job stopped")
}
