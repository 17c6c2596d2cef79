package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/models"
)

// RetentionSweeper deletes sessions past their retention window.
type RetentionSweeper interface {
	Cleanup(ctx context.Context, olderThanDays int) (*models.CleanupResponse, error)
}

// Worker runs background maintenance for the interview store.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	RunOnce(ctx context.Context) error
}

type janitor struct {
	sweeper       RetentionSweeper
	interval      time.Duration
	retentionDays int
	logger        *zap.Logger
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewJanitor sweeps every interval. A zero interval disables the loop; RunOnce
// still works.
func NewJanitor(sweeper RetentionSweeper, interval time.Duration, retentionDays int, log *zap.Logger) Worker {
	return &janitor{
		sweeper:       sweeper,
		interval:      interval,
		retentionDays: retentionDays,
		logger:        log.Named("janitor"),
		stopChan:      make(chan struct{}),
	}
}

// Start implements Worker.
func (j *janitor) Start(ctx context.Context) {
	if j.interval <= 0 {
		j.logger.Info("retention sweeps disabled")
		return
	}

	j.wg.Add(1)
	go j.loop(ctx)

	j.logger.Info("🧹 janitor started", zap.Duration("interval", j.interval), zap.Int("retention_days", j.retentionDays))
}

// Stop implements Worker.
func (j *janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
	})
	j.wg.Wait()
	j.logger.Info("janitor stopped")
}

// RunOnce implements Worker.
func (j *janitor) RunOnce(ctx context.Context) error {
	result, err := j.sweeper.Cleanup(ctx, j.retentionDays)
	if err != nil {
		return err
	}

	if result.Total > 0 {
		j.logger.Info("retention sweep removed sessions",
			zap.Int64("completed", result.Completed),
			zap.Int64("error", result.Error),
			zap.Int64("abandoned", result.Abandoned),
		)
	}
	return nil
}

func (j *janitor) loop(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.logger.Warn("retention sweep failed", zap.Error(err))
			}
		}
	}
}
