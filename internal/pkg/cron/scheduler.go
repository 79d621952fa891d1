package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a named function run repeatedly at a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Scheduler runs registered jobs on their own tickers. Each job gets a
// goroutine; a slow run delays only that job's next tick, never its
// siblings.
type Scheduler struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make([]Job, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers a job. Registration after Start has no effect until
// the next Start.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
	slog.Info("Scheduled job registered", "name", name, "interval", interval)
}

// Start launches every registered job. Each runs once immediately and
// then on its interval.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("Job scheduler started", "job_count", len(s.jobs))
}

// Stop cancels the scheduler context and waits for in-flight runs to
// return.
func (s *Scheduler) Stop() {
	slog.Info("Stopping job scheduler")
	s.cancel()
	s.wg.Wait()
	slog.Info("Job scheduler stopped")
}

func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// First run happens at startup, not one interval later.
	s.executeJob(job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Scheduled job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(job)
		}
	}
}

func (s *Scheduler) executeJob(job Job) {
	start := time.Now()
	slog.Debug("Scheduled job starting", "name", job.Name)

	if err := job.Fn(s.ctx); err != nil {
		slog.Error("Scheduled job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Scheduled job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce executes every registered job a single time on the caller's
// context, synchronously. Tests drive the jobs through this instead of
// waiting on tickers.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if err := job.Fn(ctx); err != nil {
			slog.Error("Scheduled job failed", "name", job.Name, "error", err)
		}
	}
}
