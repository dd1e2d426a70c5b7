package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "event_finder"

// Metrics holds the service collectors on a private registry so tests can
// create as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	WeatherLookups   *prometheus.CounterVec
	WeatherDuration  prometheus.Histogram
	EnrichDropped    prometheus.Counter
	EventsAppended   prometheus.Counter
	PersistFailures  prometheus.Counter
	SearchPageEvents prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})
	m.HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	m.WeatherLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "weather_lookups_total",
		Help:      "Weather lookups by outcome (ok|error)",
	}, []string{"outcome"})
	m.WeatherDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "weather_lookup_duration_seconds",
		Help:      "Time spent waiting on the weather endpoint",
		Buckets:   prometheus.DefBuckets,
	})
	m.EnrichDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_enrichment_dropped_total",
		Help:      "Search hits dropped because enrichment failed",
	})
	m.EventsAppended = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_appended_total",
		Help:      "Events appended to the store",
	})
	m.PersistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_persist_failures_total",
		Help:      "Appends whose backing write failed",
	})
	m.SearchPageEvents = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_page_events",
		Help:      "Number of enriched events returned per search page",
		Buckets:   prometheus.LinearBuckets(0, 1, 11),
	})

	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.WeatherLookups,
		m.WeatherDuration,
		m.EnrichDropped,
		m.EventsAppended,
		m.PersistFailures,
		m.SearchPageEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
