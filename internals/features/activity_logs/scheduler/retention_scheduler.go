// file: internals/features/activity_logs/scheduler/retention_scheduler.go
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const DefaultSchedule = "30 3 * * *"

// Purger is satisfied by the activity log service.
type Purger interface {
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

type RetentionConfig struct {
	Schedule      string
	RetentionDays int
	Timeout       time.Duration
}

// StartRetentionCron registers the purge job and starts the scheduler. The
// caller stops it with the returned cron's Stop.
func StartRetentionCron(p Purger, cfg RetentionConfig, log *logrus.Logger) (*cron.Cron, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 4 * time.Minute
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(cfg.Schedule, RetentionJob(p, cfg, log)); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"schedule":  cfg.Schedule,
		"retention": cfg.RetentionDays,
	}).Info("[ACTIVITY-LOG-REAPER] started")
	c.Start()
	return c, nil
}

// RetentionJob is the function the cron entry runs.
func RetentionJob(p Purger, cfg RetentionConfig, log *logrus.Logger) func() {
	return func() {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 4 * time.Minute
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if _, err := p.Purge(ctx, cfg.RetentionDays); err != nil {
			log.WithError(err).Error("[ACTIVITY-LOG-REAPER] purge failed")
		}
	}
}
