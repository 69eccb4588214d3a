// Package scheduler runs the storefront's periodic maintenance jobs on a
// robfig/cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var (
	ErrJobNotFound     = errors.New("scheduler: unknown job")
	ErrDuplicateJob    = errors.New("scheduler: job name already registered")
	ErrInvalidSchedule = errors.New("scheduler: invalid schedule")
)

// JobStatus is the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a unit of periodic work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobState reports the schedule and last outcome of a registered job
type JobState struct {
	Name       string
	Spec       string
	Status     JobStatus
	LastError  string
	LastRunAt  *time.Time
	NextRunAt  time.Time
	RunCount   int
	FailCount  int
	entryID    cron.EntryID
	registered Job
}

// Scheduler wraps a cron runner. Runs of the same job never overlap and
// each run is bounded by the configured job timeout.
type Scheduler struct {
	cron       *cron.Cron
	logger     *zap.Logger
	jobTimeout time.Duration

	mu      sync.Mutex
	jobs    map[string]*JobState
	running bool
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler. A zero JobTimeout defaults to five minutes.
func New(cfg config.SchedulerConfig, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	cronLogger := zapCronLogger{logger: logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger:     logger,
		jobTimeout: timeout,
		jobs:       make(map[string]*JobState),
		baseCtx:    ctx,
		cancel:     cancel,
	}
}

// Register schedules job with a standard cron spec or a descriptor such
// as "@every 1h".
func (s *Scheduler) Register(spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name())
	}

	state := &JobState{Name: job.Name(), Spec: spec, Status: JobStatusPending, registered: job}
	id, err := s.cron.AddFunc(spec, func() { s.execute(s.baseCtx, state) })
	if err != nil {
		return fmt.Errorf("%w: job %s: %v", ErrInvalidSchedule, job.Name(), err)
	}
	state.entryID = id
	s.jobs[job.Name()] = state

	s.logger.Info("Scheduled job registered",
		zap.String("job", job.Name()),
		zap.String("spec", spec),
	)
	return nil
}

// RunNow runs a registered job immediately in the caller's goroutine
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	state, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.execute(ctx, state)
}

// State returns a snapshot of a job's state
func (s *Scheduler) State(name string) (JobState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.jobs[name]
	if !ok {
		return JobState{}, false
	}
	snapshot := *state
	if s.running {
		snapshot.NextRunAt = s.cron.Entry(state.entryID).Next
	}
	return snapshot, true
}

// Start begins running scheduled jobs
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop stops scheduling, cancels running jobs and waits for them or ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) execute(parent context.Context, state *JobState) error {
	ctx, cancel := context.WithTimeout(parent, s.jobTimeout)
	defer cancel()
	ctx, span := telemetry.StartSpan(ctx, "scheduler.job "+state.Name, telemetry.AttrJobName.String(state.Name))

	started := time.Now()
	s.mu.Lock()
	state.Status = JobStatusRunning
	state.LastRunAt = &started
	job := state.registered
	s.mu.Unlock()

	err := job.Run(ctx)
	elapsed := time.Since(started)
	telemetry.EndSpan(span, err)

	s.mu.Lock()
	state.RunCount++
	if err != nil {
		state.Status = JobStatusFailed
		state.LastError = err.Error()
		state.FailCount++
	} else {
		state.Status = JobStatusSuccess
		state.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", state.Name),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return err
	}
	s.logger.Debug("Scheduled job completed",
		zap.String("job", state.Name),
		zap.Duration("duration", elapsed),
	)
	return nil
}

// zapCronLogger adapts zap to cron.Logger
type zapCronLogger struct {
	logger *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw("cron: "+msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
