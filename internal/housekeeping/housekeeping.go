// Package housekeeping runs periodic maintenance jobs on cron schedules.
package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mindweave/mindweave-server/internal/logger"
)

// Job is a named unit of maintenance work.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// JobRecorder receives the outcome of every run.
type JobRecorder interface {
	JobRun(job string, success bool)
}

// Scheduler owns a cron instance. Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron     *cron.Cron
	recorder JobRecorder
	logger   *logger.Logger
	timeout  time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a Scheduler. Each run gets its own context bounded by timeout when positive.
func New(recorder JobRecorder, timeout time.Duration, logger *logger.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		recorder: recorder,
		logger:   logger,
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Add registers job. Schedules use the standard five-field syntax or descriptors such as "@every 1h".
func (s *Scheduler) Add(job Job) error {
	if job.Run == nil {
		return fmt.Errorf("job %q has no run function", job.Name)
	}
	if _, err := s.cron.AddFunc(job.Schedule, func() { s.run(job) }); err != nil {
		return fmt.Errorf("failed to schedule job %q: %w", job.Name, err)
	}
	s.logger.Debug("housekeeping: job scheduled", "job", job.Name, "schedule", job.Schedule)
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(job Job) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(ctx)
	if s.recorder != nil {
		s.recorder.JobRun(job.Name, err == nil)
	}
	if err != nil {
		s.logger.Error("housekeeping: job failed", "job", job.Name, "error", err)
		return
	}
	s.logger.Debug("housekeeping: job finished", "job", job.Name, "duration_ms", time.Since(start).Milliseconds())
}

type cronLogger struct {
	logger *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
