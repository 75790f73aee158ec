// Package cachemetrics exposes the cache engine's Prometheus instruments.
package cachemetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the counters and gauges the cache engine updates on its
// hot paths. Callers register Metrics with a prometheus.Registerer once per
// process; Cache instances sharing the same process may share one Metrics.
type Metrics struct {
	Gets             prometheus.Counter
	Hits             prometheus.Counter
	Sets             prometheus.Counter
	Deletes          prometheus.Counter
	GCDeletedTotal   prometheus.Counter
	StampedeDegraded prometheus.Counter
	StampedeCompute  prometheus.Counter
	InlineBytes      prometheus.Gauge
	ExternalBytes    prometheus.Gauge
}

// New builds and registers a Metrics bundle with the given namespace (e.g.
// "filecache") against reg. Pass prometheus.DefaultRegisterer for the
// process-wide default registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Gets: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "gets_total", Help: "Total Get calls.",
		}),
		Hits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "hits_total", Help: "Get calls that found a live entry.",
		}),
		Sets: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sets_total", Help: "Total Set calls.",
		}),
		Deletes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "deletes_total", Help: "Total Delete calls.",
		}),
		GCDeletedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "gc_deleted_total", Help: "Entries removed by garbage collection sweeps.",
		}),
		StampedeDegraded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "stampede_degraded_total", Help: "Remember calls that fell back to the unlocked degraded path.",
		}),
		StampedeCompute: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "stampede_compute_total", Help: "Remember calls that invoked the compute callback.",
		}),
		InlineBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "inline_bytes", Help: "Bytes most recently written inline into a meta record.",
		}),
		ExternalBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "external_bytes", Help: "Bytes most recently written to an external .bin sibling.",
		}),
	}
}
