package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job is a named piece of background work run on a fixed interval
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs background jobs on their intervals until stopped. Each job
// gets its own goroutine and fires once immediately on start, so catch-up
// work (like an overdue digest) does not wait a full interval.
type Scheduler struct {
	logger *logrus.Logger
	jobs   []Job

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewScheduler creates a new Scheduler
func NewScheduler(logger *logrus.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		logger: logger,
		jobs:   jobs,
	}
}

// Start launches all jobs. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, job)
	}

	s.logger.Infof("Scheduler started with %d jobs", len(s.jobs))
}

// Stop cancels all jobs and waits for running work to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.fire(ctx, job)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fire(ctx, job)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, job Job) {
	if err := job.Run(ctx); err != nil {
		s.logger.Warnf("Job %s failed: %v", job.Name, err)
	}
}
