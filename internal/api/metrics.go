package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API. They live on a
// private registry so tests can build as many servers as they like.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	conversions     *prometheus.CounterVec
	cacheHits       prometheus.CounterFunc
	cacheMisses     prometheus.CounterFunc
}

// NewMetrics registers the API collectors. stats reports the converter's
// memo hits and misses; it may be nil.
func NewMetrics(stats func() (hits, misses uint64)) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patro_conversions_total",
				Help: "Date conversions, formats and parses by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.conversions)

	if stats != nil {
		m.cacheHits = prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "patro_conversion_cache_hits_total",
			Help: "Conversion memo hits",
		}, func() float64 {
			hits, _ := stats()
			return float64(hits)
		})
		m.cacheMisses = prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "patro_conversion_cache_misses_total",
			Help: "Conversion memo misses",
		}, func() float64 {
			_, misses := stats()
			return float64(misses)
		})
		m.registry.MustRegister(m.cacheHits, m.cacheMisses)
	}

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies labelled by route pattern.
func (m *Metrics) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			path := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					path = p
				}
			}

			m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// observe counts one domain operation.
func (m *Metrics) observe(kind string, err error) {
	outcome := "ok"
	if err != nil {
		_, code, known := errorStatus(err)
		if !known {
			code = CodeInternal
		}
		outcome = code
	}
	m.conversions.WithLabelValues(kind, outcome).Inc()
}
