package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_RunsJobImmediatelyOnStart(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)

	s.AddJob("startup_run", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run at startup")
	}
}

func TestScheduler_RunsOnInterval(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int64
	ran := make(chan struct{}, 4)

	s.AddJob("interval_run", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run on its interval")
		}
	}
	s.Stop()

	// Stop waits for the job goroutine, so the count is final here.
	final := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if got := runs.Load(); got != final {
		t.Fatalf("job ran after Stop: %d -> %d", final, got)
	}
}
