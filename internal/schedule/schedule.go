// Package schedule runs a task on a cron expression or fixed interval.
package schedule

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/robfig/cron/v3"

	"github.com/agentstation/continuity/pkg/constants"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/logging"
)

// Spec is either a cron expression or an interval.
type Spec struct {
	Cron     string
	Interval time.Duration
	// Immediate runs the task once as soon as the scheduler starts.
	Immediate bool
}

// String describes the spec for logs.
func (s Spec) String() string {
	if s.Cron != "" {
		return s.Cron
	}
	return "every " + s.Interval.String()
}

// Validate checks the cron expression or interval.
func (s Spec) Validate() error {
	switch {
	case s.Cron != "" && s.Interval > 0:
		return errors.NewValidationError("schedule", s.Cron, "set either a cron expression or an interval, not both")
	case s.Cron != "":
		if _, err := cron.ParseStandard(s.Cron); err != nil {
			return &errors.ValidationError{
				Field:   "schedule",
				Value:   s.Cron,
				Message: "invalid cron expression: " + err.Error(),
			}
		}
	case s.Interval <= 0:
		return errors.NewValidationError("interval", s.Interval, "interval must be positive")
	}
	return nil
}

// Parse reads a schedule value: a Go duration ("30m") becomes an interval,
// anything else must be a standard cron expression. An empty value selects
// the hourly default.
func Parse(value string) (Spec, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Spec{Cron: constants.DefaultSchedule}, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		spec := Spec{Interval: d}
		return spec, spec.Validate()
	}
	spec := Spec{Cron: value}
	return spec, spec.Validate()
}

// Task is run on every tick.
type Task func(ctx context.Context) error

// Scheduler runs a Task on a Spec. Runs never overlap.
type Scheduler struct {
	spec    Spec
	timeout time.Duration

	mu     sync.Mutex
	sched  *gocron.Scheduler
	job    *gocron.Job
	cancel context.CancelFunc
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTimeout bounds each run.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

// New creates a stopped Scheduler.
func New(spec Spec, opts ...Option) (*Scheduler, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	s := &Scheduler{spec: spec, timeout: constants.ThinkTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Spec returns the schedule.
func (s *Scheduler) Spec() Spec { return s.spec }

// Start runs task on the schedule until ctx is done or Stop is called.
// Starting a running scheduler restarts it.
func (s *Scheduler) Start(ctx context.Context, task Task) error {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)

	sched := gocron.NewScheduler(time.UTC)
	sched.SingletonModeAll()

	if s.spec.Cron != "" {
		sched.Cron(s.spec.Cron)
	} else {
		sched.Every(s.spec.Interval)
	}
	if s.spec.Immediate {
		sched.StartImmediately()
	} else {
		sched.WaitForSchedule()
	}

	job, err := sched.Do(s.run, runCtx, task)
	if err != nil {
		cancel()
		return &errors.ValidationError{
			Field:   "schedule",
			Value:   s.spec.String(),
			Message: err.Error(),
		}
	}

	sched.StartAsync()
	s.sched, s.job, s.cancel = sched, job, cancel

	logging.Info().
		Str("schedule", s.spec.String()).
		Time("next_run", job.NextRun()).
		Msg("Scheduler started")

	go func() {
		<-runCtx.Done()
		s.stop(sched)
	}()
	return nil
}

func (s *Scheduler) run(ctx context.Context, task Task) {
	if ctx.Err() != nil {
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := task(runCtx)
	switch {
	case err == nil:
		logging.Debug().Dur("elapsed", time.Since(start)).Msg("Scheduled run finished")
	case stderrors.Is(err, context.Canceled):
		logging.Debug().Msg("Scheduled run canceled")
	default:
		logging.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("Scheduled run failed")
	}
}

// Stop halts the scheduler. It is safe to call on a stopped Scheduler.
func (s *Scheduler) Stop() {
	s.stop(nil)
}

// stop halts the scheduler if it is only, or any when only is nil.
func (s *Scheduler) stop(only *gocron.Scheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sched == nil || (only != nil && s.sched != only) {
		return
	}
	s.cancel()
	s.sched.Stop()
	s.sched, s.job, s.cancel = nil, nil, nil
	logging.Debug().Msg("Scheduler stopped")
}

// Running reports whether the scheduler is started.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

// NextRun returns the time of the next scheduled run, or the zero time when
// stopped.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return time.Time{}
	}
	return s.job.NextRun()
}
