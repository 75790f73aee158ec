// Package handler wires the cache service's HTTP surface to a
// filecache.Cache: a value-store route group and a file-store route group,
// plus health, readiness, and metrics endpoints.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zynqcloud/filecache"
	"github.com/zynqcloud/filecache/cmd/filecachesvc/internal/config"
	"github.com/zynqcloud/filecache/internal/diskstats"
	"github.com/zynqcloud/filecache/internal/middleware"
)

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	cfg     *config.Config
	cache   *filecache.Cache
	logger  *slog.Logger
	metrics *Metrics
}

// New registers all routes and returns the root http.Handler. gatherer backs
// GET /metrics/engine, the Prometheus-format dump of the cache engine's own
// instruments (see internal/cachemetrics); pass nil if the caller did not
// wire engine metrics, in which case the route 404s.
//
// Middleware stack (outer → inner):
//
//	RequestLog → ServeMux → ServiceToken auth → RequestLimiter → handler
func New(cfg *config.Config, cache *filecache.Cache, logger *slog.Logger, gatherer prometheus.Gatherer) http.Handler {
	h := &Handler{
		cfg:     cfg,
		cache:   cache,
		logger:  logger,
		metrics: &Metrics{},
	}

	auth := middleware.ServiceToken(cfg.ServiceToken)
	logMW := middleware.RequestLog(logger)
	limiter := middleware.NewRequestLimiter(cfg.MaxConcurrentRequests)

	mux := http.NewServeMux()

	mux.Handle("GET /v1/entries/{key}", auth(limiter.Limit(http.HandlerFunc(h.GetEntry))))
	mux.Handle("PUT /v1/entries/{key}", auth(limiter.Limit(http.HandlerFunc(h.PutEntry))))
	mux.Handle("DELETE /v1/entries/{key}", auth(http.HandlerFunc(h.DeleteEntry)))

	mux.Handle("GET /v1/files/{key}", auth(limiter.Limit(http.HandlerFunc(h.GetFile))))
	mux.Handle("PUT /v1/files/{key}", auth(limiter.Limit(http.HandlerFunc(h.PutFile))))
	mux.Handle("DELETE /v1/files/{key}", auth(http.HandlerFunc(h.DeleteFile)))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /healthz/ready", auth(http.HandlerFunc(h.Readiness)))
	mux.Handle("GET /metrics", auth(h.metrics.metricsHandler(limiter.Active)))
	if gatherer != nil {
		mux.Handle("GET /metrics/engine", auth(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return logMW(mux)
}

// Readiness is the Kubernetes readiness probe handler: checks that the
// cache root is accessible and, where the platform supports it, that free
// disk space has not run out.
func (h *Handler) Readiness(w http.ResponseWriter, _ *http.Request) {
	type check struct {
		Name string `json:"name"`
		OK   bool   `json:"ok"`
		Msg  string `json:"msg,omitempty"`
	}
	var checks []check
	allOK := true

	if _, err := os.Stat(h.cache.Root()); err != nil {
		checks = append(checks, check{"cache_root", false, "cache root not accessible"})
		allOK = false
	} else {
		checks = append(checks, check{"cache_root", true, ""})
	}

	avail, total := diskstats.Stat(h.cache.Root())
	if total > 0 {
		const minFreeBytes = 64 << 20
		if avail < minFreeBytes {
			checks = append(checks, check{"disk_space", false, "low free space"})
			allOK = false
		} else {
			checks = append(checks, check{"disk_space", true, ""})
		}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"ready": allOK, "checks": checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
