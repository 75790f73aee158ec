package cleanup

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeSweeper struct {
	calls int
	n     int
}

func (f *fakeSweeper) GC(limit int) (int, error) {
	f.calls++
	return f.n, nil
}

func TestRunPeriodicSweepsImmediatelyAndOnTick(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sweeper := &fakeSweeper{n: 3}

	ctx, cancel := context.WithCancel(context.Background())
	done := RunPeriodic(ctx, sweeper, 100, 10*time.Millisecond, logger)

	time.Sleep(35 * time.Millisecond)
	cancel()
	<-done

	if sweeper.calls < 2 {
		t.Fatalf("expected at least 2 sweeps (immediate + tick), got %d", sweeper.calls)
	}
}

func TestRunPeriodicStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sweeper := &fakeSweeper{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := RunPeriodic(ctx, sweeper, 100, time.Hour, logger)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected RunPeriodic to stop promptly after cancel")
	}
}
