package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/infrastructure/logger"
)

// Job is a named task executed on a fixed interval
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
	// Timeout bounds a single execution. Zero means the interval.
	Timeout time.Duration
	// RunOnStart executes the job once immediately after Start
	RunOnStart bool
}

func (j Job) validate() error {
	if j.Name == "" || j.Interval <= 0 || j.Run == nil {
		return fmt.Errorf("%w: %q", ErrInvalidJob, j.Name)
	}
	return nil
}

type registeredJob struct {
	Job
	busy atomic.Bool
}

// Runner executes interval jobs in background goroutines. A job never
// overlaps itself: a tick that arrives while the previous run is still
// going is skipped.
type Runner struct {
	logger *zap.Logger

	mu      sync.Mutex
	jobs    []*registeredJob
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner creates a Runner with the given jobs
func NewRunner(log *zap.Logger, jobs ...Job) (*Runner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{logger: log.Named("scheduler")}
	for _, j := range jobs {
		if err := r.Add(j); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a job. Jobs added while running start with the next Start.
func (r *Runner) Add(job Job) error {
	if err := job.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.jobs {
		if existing.Name == job.Name {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidJob, job.Name)
		}
	}
	r.jobs = append(r.jobs, &registeredJob{Job: job})
	return nil
}

// Jobs returns the registered job names
func (r *Runner) Jobs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.jobs))
	for i, j := range r.jobs {
		names[i] = j.Name
	}
	return names
}

// IsRunning reports whether Start has been called without a matching Stop
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Start launches one goroutine per job
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	for _, j := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, j)
	}

	r.logger.Info("Scheduler started", zap.Strings("jobs", r.namesLocked()))
	return nil
}

// Stop cancels all loops and waits for in-flight runs, or until ctx is done
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	r.running = false
	cancel := r.cancel
	r.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow executes the named job synchronously
func (r *Runner) RunNow(ctx context.Context, name string) error {
	r.mu.Lock()
	var job *registeredJob
	for _, j := range r.jobs {
		if j.Name == name {
			job = j
			break
		}
	}
	r.mu.Unlock()

	if job == nil {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if !job.busy.CompareAndSwap(false, true) {
		return ErrJobBusy
	}
	defer job.busy.Store(false)
	return r.execute(ctx, job)
}

func (r *Runner) loop(ctx context.Context, job *registeredJob) {
	defer r.wg.Done()

	if job.RunOnStart {
		r.tick(ctx, job)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx, job)
		}
	}
}

func (r *Runner) tick(ctx context.Context, job *registeredJob) {
	if !job.busy.CompareAndSwap(false, true) {
		r.logger.Debug("Skipping tick, previous run still active", zap.String("job", job.Name))
		return
	}
	defer job.busy.Store(false)
	_ = r.execute(ctx, job)
}

func (r *Runner) execute(ctx context.Context, job *registeredJob) (err error) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = job.Interval
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, log := logger.WithJob(ctx, r.logger, job.Name)

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, p)
			log.Error("Job panicked", zap.Any("panic", p), zap.Stack("stacktrace"))
		}
	}()

	if err = job.Run(ctx); err != nil {
		log.Error("Job failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return err
	}
	log.Debug("Job finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (r *Runner) namesLocked() []string {
	names := make([]string, len(r.jobs))
	for i, j := range r.jobs {
		names[i] = j.Name
	}
	return names
}
