package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type CleanupConfig struct {
	RetentionDays int
	Interval      time.Duration
	Enabled       bool
}

func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		RetentionDays: 180,
		Interval:      24 * time.Hour,
		Enabled:       true,
	}
}

// CleanupService purges old notifications.
type CleanupService struct {
	repo *Repository
	log  *zap.Logger
}

func NewCleanupService(repo *Repository, log *zap.Logger) *CleanupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupService{repo: repo, log: log}
}

func (c *CleanupService) CleanupOld(ctx context.Context, retentionDays int) (int64, error) {
	start := time.Now()
	deleted, err := c.repo.DeleteOlderThan(ctx, time.Duration(retentionDays)*24*time.Hour)
	if err != nil {
		c.log.Error("notification cleanup failed", zap.Error(err))
		return 0, err
	}
	c.log.Info("notification cleanup completed",
		zap.Int64("deleted", deleted),
		zap.Duration("took", time.Since(start)),
	)
	return deleted, nil
}

// Schedule runs CleanupOld every cfg.Interval until ctx is done.
func (c *CleanupService) Schedule(ctx context.Context, cfg CleanupConfig) {
	if !cfg.Enabled || cfg.Interval <= 0 {
		c.log.Info("automatic notification cleanup disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_, _ = c.CleanupOld(ctx, cfg.RetentionDays)
			case <-ctx.Done():
				c.log.Info("notification cleanup stopped")
				return
			}
		}
	}()
	c.log.Info("notification cleanup scheduled", zap.Duration("interval", cfg.Interval))
}
