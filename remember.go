package filecache

import (
	"context"
	"time"

	"github.com/zynqcloud/filecache/internal/filelock"
)

// ComputeFunc produces the value to cache when Remember observes a miss.
type ComputeFunc func(ctx context.Context) (Value, error)

// Remember implements the stampede-safe compute-and-store pattern: under
// concurrent callers for the same key, at most one caller per host executes
// compute; the rest observe the value it wrote.
//
// If the per-key advisory lock cannot be acquired (an unusual filesystem,
// or a platform without flock support), Remember falls back to computing
// and storing without exclusion. Correctness is preserved — the caller's
// own computed value is still correct — but deduplication is weakened for
// that call.
func (c *Cache) Remember(ctx context.Context, key []byte, ttl time.Duration, compute ComputeFunc) (Value, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	slot := c.valueSlot(key)
	lock, err := filelock.Acquire(slot.lockPath)
	if err != nil {
		c.log().Warn("filecache: lock unavailable, using degraded path", "err", err)
		if m := c.metrics(); m != nil {
			m.StampedeDegraded.Inc()
		}
		return c.computeAndSet(ctx, key, ttl, compute)
	}
	defer lock.Release() //nolint:errcheck

	if v, ok := c.Get(key); ok {
		return v, nil
	}

	return c.computeAndSet(ctx, key, ttl, compute)
}

func (c *Cache) computeAndSet(ctx context.Context, key []byte, ttl time.Duration, compute ComputeFunc) (Value, error) {
	if m := c.metrics(); m != nil {
		m.StampedeCompute.Inc()
	}
	v, err := compute(ctx)
	if err != nil {
		return Value{}, err
	}
	if err := c.Set(key, v, ttl); err != nil {
		return Value{}, err
	}
	return v, nil
}
