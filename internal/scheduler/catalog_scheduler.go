package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/vund-dev/moda-backend/config"
	"github.com/vund-dev/moda-backend/internal/app/service"
	"github.com/vund-dev/moda-backend/pkg/logger"
)

// CatalogScheduler runs the periodic catalog jobs: flushing buffered
// view counters to the database and sweeping orphaned media blobs.
type CatalogScheduler struct {
	cron         *cron.Cron
	viewService  service.ViewService
	sweepService service.SweepService
	cfg          config.SchedulerConfig
}

func NewCatalogScheduler(viewService service.ViewService, sweepService service.SweepService, cfg config.SchedulerConfig) *CatalogScheduler {
	return &CatalogScheduler{
		cron:         cron.New(),
		viewService:  viewService,
		sweepService: sweepService,
		cfg:          cfg,
	}
}

func (s *CatalogScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.ViewFlushSpec, func() {
		logger.Info("Starting scheduled view count flush", nil)

		if err := s.viewService.FlushViewCounts(context.Background()); err != nil {
			logger.Error("Scheduled view count flush failed", err)
			return
		}
	})
	if err != nil {
		logger.Error("Failed to register view flush job", err, map[string]interface{}{
			"spec": s.cfg.ViewFlushSpec,
		})
		return err
	}

	_, err = s.cron.AddFunc(s.cfg.BlobSweepSpec, func() {
		logger.Info("Starting scheduled blob sweep", nil)

		removed, err := s.sweepService.SweepOrphanedBlobs(context.Background(), s.cfg.BlobSweepAge)
		if err != nil {
			logger.Error("Scheduled blob sweep failed", err)
			return
		}
		logger.Info("Scheduled blob sweep finished", map[string]interface{}{
			"removed": removed,
		})
	})
	if err != nil {
		logger.Error("Failed to register blob sweep job", err, map[string]interface{}{
			"spec": s.cfg.BlobSweepSpec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Catalog scheduler started", map[string]interface{}{
		"view_flush_spec": s.cfg.ViewFlushSpec,
		"blob_sweep_spec": s.cfg.BlobSweepSpec,
	})
	return nil
}

func (s *CatalogScheduler) Stop() {
	logger.Info("Stopping catalog scheduler", nil)
	s.cron.Stop()
}
