// Package metrics exposes Prometheus counters for the detection pipeline.
//
// Metrics are served at /metrics when a listen address is configured:
//
//	curl http://localhost:9090/metrics
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LinesRead counts raw lines pulled from the input source.
	LinesRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_lines_read_total",
		Help: "Total number of log lines read from the input source",
	})

	// EventsProcessed counts lines that were parsed and evaluated.
	EventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_events_processed_total",
		Help: "Total number of parsed events evaluated by the rule engine",
	})

	// AlertsGenerated counts emitted alerts.
	AlertsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_alerts_generated_total",
		Help: "Total number of alerts generated",
	}, []string{"rule", "severity"})

	// BruteForceSuppressed counts brute-force alerts held back by the cooldown.
	BruteForceSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_bruteforce_suppressed_total",
		Help: "Brute-force threshold crossings suppressed by the per-address cooldown",
	})

	// TrackedAddresses is the number of addresses with brute-force state.
	TrackedAddresses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sentinel_bruteforce_tracked_addresses",
		Help: "Number of source addresses currently tracked by the brute-force detector",
	})
)

// Handler returns the /metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartServer serves /metrics on addr until the listener fails.
func StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
