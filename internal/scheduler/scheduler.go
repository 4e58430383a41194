// Package scheduler refreshes the course cache on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
)

// Refresher is the callback the scheduler drives.
type Refresher interface {
	RefreshInBackground(trigger string) bool
}

// Scheduler triggers a background refresh every interval.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a scheduler. It does not run until Start is called.
func New(refresher Refresher, interval time.Duration, logger *zap.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	s := &Scheduler{
		cron:      cron.New(cron.WithLogger(cronLogger{logger.Sugar()})),
		refresher: refresher,
		interval:  interval,
		logger:    logger,
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), s.tick); err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	return s, nil
}

// Start begins the schedule. With refreshOnStart one refresh is triggered immediately.
func (s *Scheduler) Start(refreshOnStart bool) {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Duration("interval", s.interval), zap.Bool("refresh_on_start", refreshOnStart))
	if refreshOnStart {
		s.tick()
	}
}

// Stop halts the schedule and waits for a running tick, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out", zap.Error(ctx.Err()))
	}
}

func (s *Scheduler) tick() {
	if !s.refresher.RefreshInBackground(entity.TriggerScheduled) {
		s.logger.Info("Skipping scheduled refresh, previous one still running")
	}
}

// cronLogger routes cron's internal logging to zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
