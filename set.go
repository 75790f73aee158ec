package filecache

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/zynqcloud/filecache/internal/atomic"
	"github.com/zynqcloud/filecache/internal/cacheerr"
	"github.com/zynqcloud/filecache/internal/codec"
	"github.com/zynqcloud/filecache/internal/metafile"
)

// Set stores v under key with the given ttl.
//
// ttl conventions: ttl > 0 uses that duration; ttl == 0 applies the cache's
// configured DefaultTTL; ttl < 0 means the entry never expires (meta's e
// field is persisted as 0).
func (c *Cache) Set(key []byte, v Value, ttl time.Duration) error {
	if m := c.metrics(); m != nil {
		m.Sets.Inc()
	}
	slot := c.valueSlot(key)

	expires := c.resolveExpiry(ttl)

	payload, err := codec.Encode(c.opts.Serializer, v)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", cacheerr.ErrWrite, err)
	}

	compressed := false
	if len(payload) >= c.opts.CompressThreshold {
		if cmp, err := codec.Compress(payload); err == nil && len(cmp) < len(payload) {
			payload = cmp
			compressed = true
		}
	}

	meta := metafile.ValueMeta{
		Expires:    expires,
		Serializer: string(c.opts.Serializer),
		Compressed: compressed,
	}

	if len(payload) <= c.opts.MaxInlineBytes {
		meta.Inline = true
		meta.Payload = payload
		if err := atomic.WriteFile(slot.metaPath, metafile.EncodeValueMeta(meta), atomic.FilePerm); err != nil {
			return fmt.Errorf("%w: %v", cacheerr.ErrWrite, err)
		}
		// Switching from external to inline: the stale .bin sibling must go.
		os.Remove(slot.binPath) //nolint:errcheck
		if m := c.metrics(); m != nil {
			m.InlineBytes.Set(float64(len(payload)))
		}
	} else {
		meta.Inline = false
		// .bin is published first; meta is the barrier a reader checks, so a
		// reader that observes the new meta is guaranteed to find the .bin.
		if err := atomic.WriteFile(slot.binPath, payload, atomic.FilePerm); err != nil {
			return fmt.Errorf("%w: %v", cacheerr.ErrWrite, err)
		}
		if err := atomic.WriteFile(slot.metaPath, metafile.EncodeValueMeta(meta), atomic.FilePerm); err != nil {
			return fmt.Errorf("%w: %v", cacheerr.ErrWrite, err)
		}
		if m := c.metrics(); m != nil {
			m.ExternalBytes.Set(float64(len(payload)))
		}
	}

	if c.opts.GCProbability > 0 && rand.Float64() < c.opts.GCProbability {
		if n, err := c.GC(gcOpportunisticLimit); err != nil {
			c.log().Warn("filecache: opportunistic gc failed", "err", err)
		} else if n > 0 {
			c.log().Info("filecache: opportunistic gc", "deleted", n)
		}
	}

	return nil
}

// gcOpportunisticLimit bounds the opportunistic sweep triggered from Set so
// a single write can never be blocked behind an unbounded directory walk.
const gcOpportunisticLimit = 200

func (c *Cache) resolveExpiry(ttl time.Duration) int64 {
	switch {
	case ttl < 0:
		return 0
	case ttl == 0:
		ttl = c.opts.DefaultTTL
	}
	if ttl <= 0 {
		return 0
	}
	return time.Now().Add(ttl).Unix()
}
