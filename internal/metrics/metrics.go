// Package metrics holds the Prometheus instruments for the service
// mode.  All collectors register with the global registry, so importing
// this package from the server is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridayctl_resolve_total",
			Help: "Configuration resolutions attempted, by profile.",
		},
		[]string{"profile"},
	)

	ResolveErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridayctl_resolve_errors_total",
			Help: "Failed configuration resolutions, by profile.",
		},
		[]string{"profile"},
	)

	MissingSecretTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fridayctl_missing_secret_total",
			Help: "Resolutions rejected because a required secret was absent.",
		})

	SnapshotCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fridayctl_snapshot_cache_hits_total",
			Help: "Resolve requests served from the snapshot cache.",
		})

	CachedSnapshots = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fridayctl_cached_snapshots",
			Help: "Snapshots currently held in the service-mode cache.",
		})
)

func init() {
	prometheus.MustRegister(
		ResolveTotal,
		ResolveErrorsTotal,
		MissingSecretTotal,
		SnapshotCacheHitsTotal,
		CachedSnapshots,
	)
}
