package services

import (
	"context"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

type OrphanCleanupRepository interface {
	RemoveOrphans(ctx context.Context) (int64, error)
}

// OrphanApplicationsCleaner periodically removes applications whose posting is gone.
type OrphanApplicationsCleaner struct {
	applications OrphanCleanupRepository
	cron         *cron.Cron
}

func NewOrphanApplicationsCleaner(applications OrphanCleanupRepository, schedule string) (*OrphanApplicationsCleaner, error) {

	oc := &OrphanApplicationsCleaner{
		applications: applications,
		cron:         cron.New(),
	}

	_, err := oc.cron.AddFunc(schedule, oc.cleanOrphans)
	if err != nil {
		return nil, err
	}

	oc.cron.Start()
	log.Infof("orphan applications cleaner started, schedule: %s", schedule)
	return oc, nil
}

func (oc *OrphanApplicationsCleaner) Stop() {
	<-oc.cron.Stop().Done()
}

func (oc *OrphanApplicationsCleaner) cleanOrphans() {
	rowsAffected, err := oc.applications.RemoveOrphans(context.Background())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("Failed to clean orphan applications: %v", err)
		return
	}

	metrics.SweptApplications.Add(float64(rowsAffected))
	log.Infof("Orphan applications were cleaned at %v, affected rows: %v", time.Now(), rowsAffected)
}
