package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry 收集 blogicum 自身的指标以及 Go 运行时指标。
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// HTTPRequestsTotal counts handled requests by method, route template and status.
	HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "blogicum_http_requests_total",
		Help: "Total number of HTTP requests handled",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route template.
	HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogicum_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// RateLimitedTotal counts requests rejected by the per-client limiter.
	RateLimitedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "blogicum_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"route"})

	// DomainEventsTotal counts content and account events (post_created, login_failed, ...).
	DomainEventsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "blogicum_events_total",
		Help: "Total number of blog domain events",
	}, []string{"event"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordEvent increments the counter of a domain event.
func RecordEvent(event string) {
	DomainEventsTotal.WithLabelValues(event).Inc()
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
