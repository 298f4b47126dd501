package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driving"
	"github.com/meridian-labs/harvest/internal/logger"
)

// Scheduler runs the pipeline on a fixed interval or cron expression, and
// optionally on demand when a trigger fires (for example a filesystem
// watcher). Overlapping triggers are harmless: the pipeline rejects
// concurrent runs and the scheduler logs and moves on.
type Scheduler struct {
	runner   driving.PipelineRunner
	sched    *gocron.Scheduler
	interval time.Duration
	cronExpr string
	triggers <-chan struct{}
	done     chan struct{}
}

var _ driving.Scheduler = (*Scheduler)(nil)

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithInterval schedules a run every d.
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.interval = d }
}

// WithCron schedules runs from a standard five-field cron expression.
func WithCron(expr string) SchedulerOption {
	return func(s *Scheduler) { s.cronExpr = expr }
}

// WithTriggers adds an on-demand trigger channel; each receive starts a run.
func WithTriggers(ch <-chan struct{}) SchedulerOption {
	return func(s *Scheduler) { s.triggers = ch }
}

// NewScheduler creates a scheduler around the given runner.
func NewScheduler(runner driving.PipelineRunner, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		runner: runner,
		sched:  gocron.NewScheduler(time.UTC),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins scheduling runs. It returns immediately; runs happen on the
// scheduler's own goroutines until Stop is called.
func (s *Scheduler) Start() error {
	switch {
	case s.cronExpr != "":
		if _, err := s.sched.Cron(s.cronExpr).Do(s.runOnce); err != nil {
			return fmt.Errorf("scheduling cron %q: %w", s.cronExpr, err)
		}
		logger.Info("scheduled runs with cron %q", s.cronExpr)
	case s.interval > 0:
		if _, err := s.sched.Every(s.interval).Do(s.runOnce); err != nil {
			return fmt.Errorf("scheduling interval %s: %w", s.interval, err)
		}
		logger.Info("scheduled runs every %s", s.interval)
	case s.triggers == nil:
		return fmt.Errorf("%w: scheduler needs an interval, a cron expression or a trigger source", domain.ErrInvalidInput)
	}

	if s.triggers != nil {
		go s.watchTriggers()
	}

	s.sched.StartAsync()
	return nil
}

// Stop halts scheduling. In-flight runs finish on their own.
func (s *Scheduler) Stop() {
	s.sched.Stop()
	close(s.done)
}

func (s *Scheduler) watchTriggers() {
	for {
		select {
		case <-s.done:
			return
		case _, ok := <-s.triggers:
			if !ok {
				return
			}
			logger.Debug("trigger received, starting run")
			s.runOnce()
		}
	}
}

func (s *Scheduler) runOnce() {
	if _, err := s.runner.Run(context.Background()); err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			logger.Debug("run already in progress, skipping")
			return
		}
		logger.Warn("scheduled run failed: %v", err)
	}
}
