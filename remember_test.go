package filecache

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zynqcloud/filecache/value"
)

func TestRememberComputesOnceOnMiss(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var calls int32
	compute := func(ctx context.Context) (Value, error) {
		atomic.AddInt32(&calls, 1)
		return value.OfString("computed"), nil
	}

	v, err := c.Remember(context.Background(), []byte("k"), time.Minute, compute)
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if !value.Equal(v, value.OfString("computed")) {
		t.Fatalf("got %+v", v)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	// Second call should hit the cache, not recompute.
	v2, err := c.Remember(context.Background(), []byte("k"), time.Minute, compute)
	if err != nil {
		t.Fatalf("Remember (second): %v", err)
	}
	if !value.Equal(v2, value.OfString("computed")) {
		t.Fatalf("got %+v", v2)
	}
	if calls != 1 {
		t.Fatalf("calls after second Remember = %d, want 1", calls)
	}
}

func TestRememberIsStampedeSafeUnderConcurrency(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var calls int32
	release := make(chan struct{})
	compute := func(ctx context.Context) (Value, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return value.OfInt(42), nil
	}

	const n = 10
	var wg sync.WaitGroup
	results := make([]Value, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Remember(context.Background(), []byte("shared-key"), time.Minute, compute)
		}(i)
	}

	// Give every goroutine a chance to reach the lock before releasing compute.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Fatalf("compute invoked %d times, want exactly 1", calls)
	}
	for i, err := range errs {
		if err != nil {
			t.Fatalf("goroutine %d: %v", i, err)
		}
		if !value.Equal(results[i], value.OfInt(42)) {
			t.Fatalf("goroutine %d result = %+v", i, results[i])
		}
	}
}

func TestRememberPropagatesComputeError(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	wantErr := errBoom
	_, err = c.Remember(context.Background(), []byte("k"), time.Minute, func(ctx context.Context) (Value, error) {
		return Value{}, wantErr
	})
	if err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if _, ok := c.Get([]byte("k")); ok {
		t.Fatal("a failed compute should not have stored anything")
	}
}

func TestRememberFallsBackToDegradedPathWhenLockUnavailable(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	key := []byte("k")
	slot := c.valueSlot(key)

	// A directory occupying the lock path makes filelock.Acquire's open fail,
	// forcing Remember onto its unlocked degraded path.
	if err := os.MkdirAll(slot.lockPath, 0o775); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	v, err := c.Remember(context.Background(), key, time.Minute, func(ctx context.Context) (Value, error) {
		return value.OfString("degraded"), nil
	})
	if err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if !value.Equal(v, value.OfString("degraded")) {
		t.Fatalf("got %+v", v)
	}
	got, ok := c.Get(key)
	if !ok || !value.Equal(got, value.OfString("degraded")) {
		t.Fatal("degraded-path compute result should still be persisted")
	}
}
