// Package scheduler enqueues recurring maintenance work on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/causeway-org/causeway/internal/config"
	applog "github.com/causeway-org/causeway/internal/logger"
	"github.com/causeway-org/causeway/internal/tasks"
)

// Scheduler drives the recurring jobs: the status sweep that advances
// date-driven record lifecycles, and the daily log cleanup.
type Scheduler struct {
	cfg   config.Scheduler
	queue *tasks.Client
	log   *applog.Logger

	logRetentionDays int

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func New(cfg config.Scheduler, queue *tasks.Client, logRetentionDays int, log *applog.Logger) *Scheduler {
	return &Scheduler{
		cfg:              cfg,
		queue:            queue,
		log:              log,
		logRetentionDays: logRetentionDays,
		cron:             cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start registers the cron entries and begins scheduling. Disabled
// schedulers return without error.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.cfg.Enabled {
		s.log.Info("scheduler disabled", nil)
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.StatusSchedule, s.enqueueStatusSweep); err != nil {
		return fmt.Errorf("invalid status sweep schedule %q: %w", s.cfg.StatusSchedule, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.LogCleanupSchedule, s.enqueueLogCleanup); err != nil {
		return fmt.Errorf("invalid log cleanup schedule %q: %w", s.cfg.LogCleanupSchedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.log.Info("scheduler started: status sweep {status_schedule}, log cleanup {cleanup_schedule}", map[string]any{
		"status_schedule":  s.cfg.StatusSchedule,
		"cleanup_schedule": s.cfg.LogCleanupSchedule,
	})

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop ceases scheduling and waits for in-flight cron callbacks.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	s.log.Info("scheduler stopped", nil)
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRuns returns the upcoming fire times of the registered entries.
func (s *Scheduler) NextRuns() []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.cron.Entries()
	next := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		next = append(next, entry.Next)
	}
	return next
}

// RunStatusSweepNow enqueues an immediate status sweep.
func (s *Scheduler) RunStatusSweepNow() {
	s.enqueueStatusSweep()
}

func (s *Scheduler) enqueueStatusSweep() {
	if _, err := s.queue.Add(tasks.StatusSweepTask{}).Save(); err != nil {
		s.log.Error("failed to enqueue status sweep: {error}", map[string]any{"error": err.Error()})
	}
}

func (s *Scheduler) enqueueLogCleanup() {
	task := tasks.CleanupLogsTask{DaysToKeep: s.logRetentionDays}
	if _, err := s.queue.Add(task).Save(); err != nil {
		s.log.Error("failed to enqueue log cleanup: {error}", map[string]any{"error": err.Error()})
	}
}
