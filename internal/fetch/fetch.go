// Package fetch delivers a byte stream from a local path or URL to a
// destination path, atomically.
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/zynqcloud/filecache/internal/atomic"
)

// Config controls the remote-fetch transport.
type Config struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	UserAgent      string
}

// Fetch copies source (an existing local file, or else treated as a URL) to
// dest via atomic.WriteFrom. On any failure the partially written temp file
// is removed and a wrapped error is returned.
func Fetch(ctx context.Context, source, dest string, cfg Config) (int64, error) {
	if fi, err := os.Stat(source); err == nil && !fi.IsDir() {
		f, err := os.Open(source)
		if err != nil {
			return 0, fmt.Errorf("fetch: open local source %q: %w", source, err)
		}
		defer f.Close()
		return atomic.WriteFrom(dest, f, atomic.FilePerm)
	}

	client := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return 0, fmt.Errorf("fetch: build request for %q: %w", source, err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	if cfg.ReadTimeout > 0 {
		var cancel context.CancelFunc
		req = req.WithContext(ctx)
		ctx, cancel = context.WithTimeout(req.Context(), cfg.ReadTimeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch: request %q: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("fetch: %q returned status %d", source, resp.StatusCode)
	}

	return atomic.WriteFrom(dest, resp.Body, atomic.FilePerm)
}
