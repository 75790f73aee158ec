package filecache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zynqcloud/filecache/internal/atomic"
	"github.com/zynqcloud/filecache/internal/cacheerr"
	"github.com/zynqcloud/filecache/internal/fetch"
	"github.com/zynqcloud/filecache/internal/filelock"
	"github.com/zynqcloud/filecache/internal/metafile"
)

// GetFilePath looks up key in the file store and returns the absolute path
// to its cached content file. A missing content file purges the meta
// record; an expired entry purges both.
func (c *Cache) GetFilePath(key []byte) (string, bool) {
	slot := c.fileSlot(key)
	return c.getFilePath(slot)
}

func (c *Cache) getFilePath(slot fileSlot) (string, bool) {
	data, err := os.ReadFile(slot.metaPath)
	if err != nil {
		return "", false
	}

	meta, err := metafile.DecodeFileMeta(data)
	if err != nil {
		os.Remove(slot.metaPath) //nolint:errcheck
		return "", false
	}

	if meta.Expires != 0 && meta.Expires < time.Now().Unix() {
		os.Remove(slot.metaPath) //nolint:errcheck
		if meta.Path != "" {
			os.Remove(meta.Path) //nolint:errcheck
		}
		return "", false
	}

	if _, err := os.Stat(meta.Path); err != nil {
		os.Remove(slot.metaPath) //nolint:errcheck
		return "", false
	}

	return meta.Path, true
}

// DeleteFile removes key from the file store, best-effort: missing meta or
// content files are not errors.
func (c *Cache) DeleteFile(key []byte) error {
	slot := c.fileSlot(key)
	if path, ok := c.getFilePath(slot); ok {
		os.Remove(path) //nolint:errcheck
	}
	os.Remove(slot.metaPath) //nolint:errcheck
	os.Remove(slot.lockPath) //nolint:errcheck
	return nil
}

// FileSource produces the bytes to store when RememberFile observes a miss:
// a local path that already exists, or a URL-shaped string.
type FileSource = string

// RememberFile implements the file store's stampede-safe fetch: it returns
// the cached content path for key, fetching source into place (with the
// given content-file extension) if needed. Like Remember, lock-acquisition
// failure falls back to an unlocked fetch-and-store.
func (c *Cache) RememberFile(ctx context.Context, key []byte, ttl time.Duration, source FileSource, ext string) (string, error) {
	slot := c.fileSlot(key)

	if path, ok := c.getFilePath(slot); ok {
		return path, nil
	}

	lock, err := filelock.Acquire(slot.lockPath)
	if err != nil {
		c.log().Warn("filecache: file lock unavailable, using degraded path", "err", err)
		if m := c.metrics(); m != nil {
			m.StampedeDegraded.Inc()
		}
		return c.fetchAndStoreFile(ctx, slot, ttl, source, ext)
	}
	defer lock.Release() //nolint:errcheck

	if path, ok := c.getFilePath(slot); ok {
		return path, nil
	}

	return c.fetchAndStoreFile(ctx, slot, ttl, source, ext)
}

func (c *Cache) fetchAndStoreFile(ctx context.Context, slot fileSlot, ttl time.Duration, source FileSource, ext string) (string, error) {
	if m := c.metrics(); m != nil {
		m.StampedeCompute.Inc()
	}
	if ext == "" {
		ext = "bin"
	}
	dest := slot.contentPath(ext)

	cfg := fetch.Config{
		ConnectTimeout: c.opts.ConnectTimeout,
		ReadTimeout:    c.opts.ReadTimeout,
		UserAgent:      c.opts.UserAgent,
	}
	if _, err := fetch.Fetch(ctx, source, dest, cfg); err != nil {
		return "", fmt.Errorf("%w: %v", cacheerr.ErrFetch, err)
	}

	meta := metafile.FileMeta{
		Expires: c.resolveExpiry(ttl),
		Path:    dest,
	}
	if err := atomic.WriteFile(slot.metaPath, metafile.EncodeFileMeta(meta), atomic.FilePerm); err != nil {
		os.Remove(dest) //nolint:errcheck
		return "", fmt.Errorf("%w: %v", cacheerr.ErrWrite, err)
	}

	return dest, nil
}
