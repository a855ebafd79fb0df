package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/infrastructure/scheduler"
)

// Job names
const (
	JobVideoSync        = "video-sync"
	JobScheduledPublish = "scheduled-publish"
	JobAnalyticsRefresh = "analytics-refresh"
)

// Jobs returns the background jobs enabled by the scheduler settings
func (a *App) Jobs() []scheduler.Job {
	cfg := a.Config.Scheduler
	jobs := []scheduler.Job{{
		Name:     JobVideoSync,
		Interval: cfg.VideoPollInterval,
		Timeout:  cfg.JobTimeout,
		Run: func(ctx context.Context) error {
			res, err := a.Videos.SyncPending(ctx)
			if err != nil {
				return err
			}
			if res.Checked > 0 {
				a.Logger.Debug("Video sync finished",
					zap.Int("checked", res.Checked),
					zap.Int("downloaded", res.Downloaded),
				)
			}
			return nil
		},
	}}

	if cfg.EnableScheduledPublishing {
		jobs = append(jobs, scheduler.Job{
			Name:       JobScheduledPublish,
			Interval:   cfg.PublishInterval,
			Timeout:    cfg.JobTimeout,
			RunOnStart: true,
			Run: func(ctx context.Context) error {
				_, err := a.Publish.PublishDue(ctx)
				return err
			},
		})
	}

	if cfg.AnalyticsEnabled {
		jobs = append(jobs, scheduler.Job{
			Name:     JobAnalyticsRefresh,
			Interval: cfg.AnalyticsInterval,
			Timeout:  cfg.JobTimeout,
			Run: func(ctx context.Context) error {
				_, err := a.Publish.RefreshAnalytics(ctx)
				return err
			},
		})
	}
	return jobs
}

// Scheduler creates a Runner over Jobs
func (a *App) Scheduler() (*scheduler.Runner, error) {
	return scheduler.NewRunner(a.Logger, a.Jobs()...)
}
