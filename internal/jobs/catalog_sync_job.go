package jobs

import (
	"context"
	"sync"
	"time"

	"orderhub/internal/core/ports"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultCatalogSyncSchedule pulls the catalog at the start of every minute.
const DefaultCatalogSyncSchedule = "0 * * * * *"

const catalogSyncTimeout = 30 * time.Second

type catalogSyncer interface {
	Sync(ctx context.Context, source ports.CatalogSource) (string, error)
}

// CatalogSyncJob refreshes the catalog mirror from its canonical source on a schedule.
// A failed sync keeps the previous catalog; the store already logs the failure.
type CatalogSyncJob struct {
	store    catalogSyncer
	source   ports.CatalogSource
	schedule string
	cron     *cron.Cron
	logger   logrus.FieldLogger

	cancel  context.CancelFunc
	initial sync.WaitGroup
}

func NewCatalogSyncJob(store catalogSyncer, source ports.CatalogSource, schedule string, logger logrus.FieldLogger) *CatalogSyncJob {
	if schedule == "" {
		schedule = DefaultCatalogSyncSchedule
	}
	logger = logger.WithField("component", "catalog_sync_job")

	return &CatalogSyncJob{
		store:    store,
		source:   source,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger)))),
		logger:   logger,
	}
}

// Run performs a single sync.
func (j *CatalogSyncJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, catalogSyncTimeout)
	defer cancel()

	version, err := j.store.Sync(ctx, j.source)
	if err != nil {
		return
	}
	j.logger.WithField("version", version).Debug("catalog synced")
}

// Start schedules the sync and triggers a first one in the background, so a slow source
// never delays startup. The first run shares the schedule's skip-if-running guard.
func (j *CatalogSyncJob) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	id, err := j.cron.AddFunc(j.schedule, func() { j.Run(ctx) })
	if err != nil {
		cancel()
		return err
	}
	j.cancel = cancel
	first := j.cron.Entry(id).WrappedJob

	j.cron.Start()
	j.initial.Add(1)
	go func() {
		defer j.initial.Done()
		first.Run()
	}()

	j.logger.WithFields(logrus.Fields{
		"schedule": j.schedule,
		"source":   j.source.Name(),
	}).Info("catalog sync job started")
	return nil
}

// Stop cancels a sync in flight and waits for it to return.
func (j *CatalogSyncJob) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	<-j.cron.Stop().Done()
	j.initial.Wait()
	j.logger.Info("catalog sync job stopped")
}
