// Package config holds runtime configuration for the demo HTTP service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the cache service.
type Config struct {
	Port                  string
	CacheRoot             string
	ServiceToken          string
	MaxConcurrentRequests int
	GCInterval            time.Duration
	GCSweepLimit          int
}

// Load reads configuration from the environment, applying defaults for
// anything unset. A malformed numeric or duration value is a configuration
// error the caller should treat as fatal.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("FILECACHESVC_PORT", "8080"),
		CacheRoot:    getEnv("FILECACHESVC_CACHE_ROOT", "/data/filecache"),
		ServiceToken: getEnv("FILECACHESVC_SERVICE_TOKEN", ""),
	}

	concurrency, err := getIntEnv("FILECACHESVC_MAX_CONCURRENT_REQUESTS", 256)
	if err != nil {
		return nil, err
	}
	cfg.MaxConcurrentRequests = concurrency

	interval, err := getDurationEnv("FILECACHESVC_GC_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.GCInterval = interval

	sweepLimit, err := getIntEnv("FILECACHESVC_GC_SWEEP_LIMIT", 10000)
	if err != nil {
		return nil, err
	}
	cfg.GCSweepLimit = sweepLimit

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
