package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func TestSchedulerRunsJobImmediately(t *testing.T) {
	var runs int32
	done := make(chan struct{})

	s := NewScheduler(newTestLogger(), Job{
		Name:     "count",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			if atomic.AddInt32(&runs, 1) == 1 {
				close(done)
			}
			return nil
		},
	})

	s.Start()
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not fire on start")
	}
}

func TestSchedulerTicks(t *testing.T) {
	var runs int32

	s := NewScheduler(newTestLogger(), Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			atomic.AddInt32(&runs, 1)
			return nil
		},
	})

	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if got := atomic.LoadInt32(&runs); got < 3 {
		t.Fatalf("expected at least 3 runs, got %d", got)
	}
}

func TestSchedulerStopWaitsForJobs(t *testing.T) {
	started := make(chan struct{})
	var finished int32

	s := NewScheduler(newTestLogger(), Job{
		Name:     "slow",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			close(started)
			time.Sleep(50 * time.Millisecond)
			atomic.StoreInt32(&finished, 1)
			return nil
		},
	})

	s.Start()
	<-started
	s.Stop()

	if atomic.LoadInt32(&finished) != 1 {
		t.Fatal("Stop returned before the running job finished")
	}
}

func TestSchedulerStartTwice(t *testing.T) {
	var runs int32

	s := NewScheduler(newTestLogger(), Job{
		Name:     "once",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			atomic.AddInt32(&runs, 1)
			return nil
		},
	})

	s.Start()
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if got := atomic.LoadInt32(&runs); got != 1 {
		t.Fatalf("expected a single immediate run, got %d", got)
	}
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s := NewScheduler(newTestLogger())
	s.Stop()
}
