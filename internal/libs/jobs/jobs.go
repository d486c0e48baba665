// Package jobs runs named background jobs on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job statuses
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Func is the work of a job.
type Func func(ctx context.Context) error

// Job represents a background job
type Job struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	Status   string    `json:"status"`
	Runs     int       `json:"runs"`
	LastRun  time.Time `json:"last_run"`
	LastErr  string    `json:"last_error,omitempty"`
	fn       Func
}

// Scheduler triggers jobs on their schedules. A run that is still going
// when its next tick arrives makes that tick a no-op.
type Scheduler struct {
	cron    *cron.Cron
	logger  zerolog.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	jobs map[string]*Job
}

// NewScheduler creates a scheduler. Each run gets at most timeout.
func NewScheduler(logger zerolog.Logger, timeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(map[string]*Job),
	}
}

// Add registers fn under name on a cron spec ("*/5 * * * *", "@every 10m").
func (s *Scheduler) Add(name, spec string, fn Func) error {
	s.mu.Lock()
	if _, ok := s.jobs[name]; ok {
		s.mu.Unlock()
		return fmt.Errorf("job %q already registered", name)
	}
	s.jobs[name] = &Job{Name: name, Schedule: spec, Status: StatusPending, fn: fn}
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(spec, func() { _ = s.Run(name) }); err != nil {
		s.mu.Lock()
		delete(s.jobs, name)
		s.mu.Unlock()
		return fmt.Errorf("schedule %q for job %q: %w", spec, name, err)
	}
	return nil
}

// Run executes a job now, outside its schedule, and returns its error.
func (s *Scheduler) Run(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown job %q", name)
	}
	job.Status = StatusRunning
	fn := job.fn
	s.mu.Unlock()

	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)

	s.mu.Lock()
	job.Runs++
	job.LastRun = start.UTC()
	if err != nil {
		job.Status = StatusFailed
		job.LastErr = err.Error()
	} else {
		job.Status = StatusSucceeded
		job.LastErr = ""
	}
	s.mu.Unlock()

	event := s.logger.Info()
	if err != nil {
		event = s.logger.Warn().Err(err)
	}
	event.Str("job", name).Dur("took", time.Since(start)).Msg("job finished")
	return err
}

// Jobs returns a snapshot of the registered jobs ordered by name.
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		c := *j
		c.fn = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	return out
}

// Count returns the number of registered jobs
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Start begins triggering jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling, cancels running jobs and waits for them to return
// or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
