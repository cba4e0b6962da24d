package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the client
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RetriesTotal    *prometheus.CounterVec
	EventsTotal     *prometheus.CounterVec
	DecodeDrops     prometheus.Counter
	TokensUsed      *prometheus.CounterVec
	ErrorsTotal     *prometheus.CounterVec
	ActiveStreams   prometheus.Gauge
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
}

// NewMetrics creates a new Metrics instance registered on the default
// Prometheus registry
func NewMetrics(namespace string) *Metrics {
	return newMetrics(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the collectors on a caller-provided registry
func NewMetricsWith(namespace string, reg prometheus.Registerer) *Metrics {
	return newMetrics(namespace, reg)
}

func newMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "responses_client"
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of API requests issued",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
		RetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retries_total",
				Help:      "Total number of request retries",
			},
			[]string{"operation"},
		),
		EventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_events_total",
				Help:      "Total number of streaming events decoded",
			},
			[]string{"event_type"},
		),
		DecodeDrops: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_decode_drops_total",
				Help:      "Total number of stream frames dropped as undecodable",
			},
		),
		TokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_used_total",
				Help:      "Total number of tokens used",
			},
			[]string{"model", "type"}, // type: input, output, total
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors",
			},
			[]string{"operation", "error_kind"},
		),
		ActiveStreams: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_streams",
				Help:      "Number of event streams currently open",
			},
		),
		CacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of response cache hits",
			},
		),
		CacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of response cache misses",
			},
		),
	}
}
