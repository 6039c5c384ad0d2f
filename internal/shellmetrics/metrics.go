// Package shellmetrics exposes the reactive core's operational state as
// Prometheus gauges/counters (entity counts per domain, backend connection
// status, broadcast-channel lag), the way cuemby-warren/pkg/metrics/metrics.go
// declares its collectors at package scope and registers them in init.
package shellmetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EntitiesTracked = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "steelshell_entities_tracked",
			Help: "Number of live entities currently tracked, by domain and kind",
		},
		[]string{"domain", "kind"},
	)

	BackendConnected = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "steelshell_backend_connected",
			Help: "Whether a backend connection is established (1) or not (0), by domain",
		},
		[]string{"domain"},
	)

	BroadcastDropsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steelshell_broadcast_drops_total",
			Help: "Total number of coalesced (dropped-stale) Property notifications, by domain",
		},
		[]string{"domain"},
	)

	DBusCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steelshell_dbus_call_duration_seconds",
			Help:    "D-Bus method call duration in seconds, by domain and method",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"domain", "method"},
	)

	ReconcileCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steelshell_reconcile_cycles_total",
			Help: "Total number of entity-list reconciliation passes, by domain",
		},
		[]string{"domain"},
	)
)

func init() {
	prometheus.MustRegister(
		EntitiesTracked,
		BackendConnected,
		BroadcastDropsTotal,
		DBusCallDuration,
		ReconcileCyclesTotal,
	)
}

// Handler returns the Prometheus scrape handler for mounting under
// internal/controlapi's /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
