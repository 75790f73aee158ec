// Package cleanup runs the cache's bounded garbage-collection sweep on a
// schedule, for programs that embed a filecache.Cache long enough to want
// expiry handled in the background rather than only on explicit GC calls.
package cleanup

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is the subset of filecache.Cache that a periodic sweep needs.
// Satisfied by *filecache.Cache; declared narrowly here so this package
// does not import the engine.
type Sweeper interface {
	GC(limit int) (int, error)
}

// RunPeriodic starts a background goroutine that calls cache.GC(limit) on
// every interval until ctx is cancelled, returning a channel that is closed
// once the goroutine has exited. A first pass runs immediately at startup
// so entries expired while the process was down get collected promptly.
func RunPeriodic(ctx context.Context, cache Sweeper, limit int, interval time.Duration, logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		sweep := func() {
			n, err := cache.GC(limit)
			if err != nil {
				logger.Warn("cleanup: gc sweep failed", "err", err)
				return
			}
			if n > 0 {
				logger.Info("cleanup: gc sweep complete", "deleted", n)
			}
		}

		sweep()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweep()
			case <-ctx.Done():
				return
			}
		}
	}()
	return done
}
