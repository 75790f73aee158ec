package filecache

import (
	"time"

	"github.com/zynqcloud/filecache/internal/gc"
)

// GC performs one bounded, depth-first sweep that deletes expired and
// unparseable entries, stopping after limit deletions. It returns the
// number of entries deleted; the remainder survives to the next sweep.
func (c *Cache) GC(limit int) (int, error) {
	n, err := gc.Sweep(c.root, limit, time.Now())
	if m := c.metrics(); m != nil && n > 0 {
		m.GCDeletedTotal.Add(float64(n))
	}
	return n, err
}
