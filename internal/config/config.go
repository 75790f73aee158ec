// Package config loads filecache options from environment variables, for
// programs that want the teacher's env-driven Config.Load() style rather
// than constructing Options by hand. Neither cmd/filecachectl nor
// cmd/filecachesvc uses it; the service reads its own FILECACHESVC_*
// settings through cmd/filecachesvc/internal/config.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/zynqcloud/filecache"
)

// FromEnv builds a slice of filecache.Option from FILECACHE_* environment
// variables, falling back to filecache's own defaults for anything unset.
func FromEnv() ([]filecache.Option, error) {
	var opts []filecache.Option

	if v := os.Getenv("FILECACHE_SALT"); v != "" {
		opts = append(opts, filecache.WithSalt(v))
	}
	if v, err := getDuration("FILECACHE_DEFAULT_TTL"); err != nil {
		return nil, err
	} else if v != 0 {
		opts = append(opts, filecache.WithDefaultTTL(v))
	}
	if v, ok, err := getInt("FILECACHE_SHARD_DEPTH"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, filecache.WithShardDepth(v))
	}
	if v, ok, err := getInt("FILECACHE_MAX_INLINE_BYTES"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, filecache.WithMaxInlineBytes(v))
	}
	if v, ok, err := getInt("FILECACHE_COMPRESS_THRESHOLD"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, filecache.WithCompressThreshold(v))
	}
	if v := os.Getenv("FILECACHE_ALLOW_CLASSES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: FILECACHE_ALLOW_CLASSES: %w", err)
		}
		opts = append(opts, filecache.WithAllowClasses(b))
	}
	if v := os.Getenv("FILECACHE_GC_PROBABILITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: FILECACHE_GC_PROBABILITY: %w", err)
		}
		opts = append(opts, filecache.WithGCProbability(f))
	}
	if v := os.Getenv("FILECACHE_FILE_SUBDIR"); v != "" {
		opts = append(opts, filecache.WithFileSubdir(v))
	}
	if v, err := getDuration("FILECACHE_CONNECT_TIMEOUT"); err != nil {
		return nil, err
	} else if v != 0 {
		opts = append(opts, filecache.WithConnectTimeout(v))
	}
	if v, err := getDuration("FILECACHE_READ_TIMEOUT"); err != nil {
		return nil, err
	} else if v != 0 {
		opts = append(opts, filecache.WithReadTimeout(v))
	}
	if v := os.Getenv("FILECACHE_USER_AGENT"); v != "" {
		opts = append(opts, filecache.WithUserAgent(v))
	}

	return opts, nil
}

// Root returns FILECACHE_ROOT, or fallback if unset.
func Root(fallback string) string {
	if v := os.Getenv("FILECACHE_ROOT"); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string) (int, bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, true, nil
}
