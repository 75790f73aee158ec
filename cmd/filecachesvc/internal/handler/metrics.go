package handler

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Metrics holds process-lifetime atomic counters exposed at GET /metrics.
// This is the demo surface's own flat counter set, distinct from the
// filecache engine's Prometheus metrics (wired separately via
// filecache.WithMetrics) — it mirrors requests at the HTTP layer, including
// ones that never reach the engine (bad request). Requests rejected by the
// service-token check never reach a handler and are not counted.
type Metrics struct {
	EntryGets     atomic.Int64
	EntrySets     atomic.Int64
	EntryDeletes  atomic.Int64
	FileGets      atomic.Int64
	FileRemembers atomic.Int64
	FileDeletes   atomic.Int64
	Errors        atomic.Int64
}

// metricsHandler serialises the current counter snapshot as flat JSON.
// activeFunc reports the live in-flight request count from the limiter.
func (m *Metrics) metricsHandler(activeFunc func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int64{ //nolint:errcheck
			"entry_gets":     m.EntryGets.Load(),
			"entry_sets":     m.EntrySets.Load(),
			"entry_deletes":  m.EntryDeletes.Load(),
			"file_gets":      m.FileGets.Load(),
			"file_remembers": m.FileRemembers.Load(),
			"file_deletes":   m.FileDeletes.Load(),
			"errors":         m.Errors.Load(),
			"active":         int64(activeFunc()),
		})
	}
}
