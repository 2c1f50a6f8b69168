// Package metrics exposes the crawler's operational counters over
// Prometheus's text exposition format, for the spider and persist
// processes to serve alongside their main loop.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ResultsEmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spider_results_emitted_total",
		Help: "POI records pushed to the result-queue.",
	})
	RecordsPersisted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spider_records_persisted_total",
		Help: "POI records upserted into the downstream store.",
	})
	UpstreamErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spider_upstream_errors_total",
		Help: "Upstream responses by normalized status, excluding success.",
	}, []string{"status"})
	PersistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spider_persist_failures_total",
		Help: "Result-queue records requeued after a failed upsert.",
	})
)

func init() {
	prometheus.MustRegister(ResultsEmitted, RecordsPersisted, UpstreamErrors, PersistFailures)
}

// Serve starts the /metrics endpoint on addr in its own goroutine. Errors
// are not fatal to the caller: a dead metrics endpoint should never take
// down the crawler or persistence worker it instruments.
func Serve(addr string) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(addr, mux)
	}()
}
