// Package metrics exposes prometheus collectors for the HTTP surface and catalog writes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cineflix",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cineflix",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cineflix",
		Name:      "catalog_mutations_total",
		Help:      "Successful catalog writes by collection and operation.",
	}, []string{"collection", "operation"})

	signIns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cineflix",
		Name:      "auth_sign_ins_total",
		Help:      "Admin sign-in attempts by result.",
	}, []string{"result"})

	queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cineflix",
		Name:      "db_query_duration_seconds",
		Help:      "Catalog database statement latency by verb and table.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"verb", "table"})

	queryErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cineflix",
		Name:      "db_query_errors_total",
		Help:      "Failed catalog database statements by verb and table.",
	}, []string{"verb", "table"})

	noticeStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cineflix",
		Name:      "notice_stream_clients",
		Help:      "Connected notice-bar websocket clients.",
	})
)

func init() {
	registry.MustRegister(
		httpRequests,
		httpDuration,
		mutations,
		signIns,
		queryDuration,
		queryErrors,
		noticeStreams,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry returns the registry every collector is registered on
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry in the prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request
func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordMutation counts a successful write to a collection
func RecordMutation(collection, operation string) {
	mutations.WithLabelValues(collection, operation).Inc()
}

// ObserveQuery records one catalog database statement
func ObserveQuery(verb, table string, elapsed time.Duration, err error) {
	if table == "" {
		table = "none"
	}
	queryDuration.WithLabelValues(verb, table).Observe(elapsed.Seconds())
	if err != nil {
		queryErrors.WithLabelValues(verb, table).Inc()
	}
}

// RecordSignIn counts a sign-in attempt
func RecordSignIn(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	signIns.WithLabelValues(result).Inc()
}

// StreamOpened and StreamClosed track live notice-bar subscribers
func StreamOpened() { noticeStreams.Inc() }

func StreamClosed() { noticeStreams.Dec() }
