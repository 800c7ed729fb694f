package utils

import (
	"time"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/models"
	"futurebound/services/progress"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeScheduler registers the maintenance jobs on the given cron spec
// and starts the scheduler. The caller stops it on shutdown.
func InitializeScheduler(spec string) (*cron.Cron, error) {
	log := logger.Named("scheduler")
	c := cron.New()

	if _, err := c.AddFunc(spec, func() {
		log.Info("running progress reconciliation")
		ReconcileProgress(database.Database.Db)
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("@hourly", func() {
		PurgeExpiredOTPs(database.Database.Db, time.Now())
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Infow("scheduler started", "reconcile", spec)
	return c, nil
}

// ReconcileProgress recomputes every in-flight enrollment and logs the drift found.
func ReconcileProgress(db *gorm.DB) int {
	log := logger.Named("scheduler")
	start := time.Now()
	drifted, err := progress.ReconcileAll(db)
	if err != nil {
		log.Errorw("progress reconciliation failed", "drifted", drifted, "error", err)
		return drifted
	}
	log.Infow("progress reconciliation finished", "drifted", drifted, "took", time.Since(start))
	return drifted
}

// PurgeExpiredOTPs hard-deletes challenges that expired or were used before now.
func PurgeExpiredOTPs(db *gorm.DB, now time.Time) int64 {
	res := db.Unscoped().Where("expires_at < ? OR used_at IS NOT NULL", now).Delete(&models.OTP{})
	if res.Error != nil {
		logger.Named("scheduler").Errorw("otp purge failed", "error", res.Error)
		return 0
	}
	if res.RowsAffected > 0 {
		logger.Named("scheduler").Infow("expired otps purged", "count", res.RowsAffected)
	}
	return res.RowsAffected
}
