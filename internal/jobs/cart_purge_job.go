package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultCartPurgeSchedule sweeps expired carts every five minutes.
const DefaultCartPurgeSchedule = "0 */5 * * * *"

type cartPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// CartPurgeJob removes abandoned carts from stores that only expire them on access.
type CartPurgeJob struct {
	store    cartPurger
	schedule string
	cron     *cron.Cron
	logger   logrus.FieldLogger
}

func NewCartPurgeJob(store cartPurger, schedule string, logger logrus.FieldLogger) *CartPurgeJob {
	if schedule == "" {
		schedule = DefaultCartPurgeSchedule
	}
	logger = logger.WithField("component", "cart_purge_job")

	return &CartPurgeJob{
		store:    store,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger)))),
		logger:   logger,
	}
}

func (j *CartPurgeJob) Run(ctx context.Context) {
	purged, err := j.store.PurgeExpired(ctx)
	if err != nil {
		j.logger.WithError(err).Error("cart purge failed")
		return
	}
	if purged > 0 {
		j.logger.WithField("purged", purged).Debug("expired carts purged")
	}
}

func (j *CartPurgeJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithField("schedule", j.schedule).Info("cart purge job started")
	return nil
}

func (j *CartPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("cart purge job stopped")
}
