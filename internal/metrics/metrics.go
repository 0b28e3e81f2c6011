// Package metrics holds the Prometheus collectors for the HTTP surface and
// month table construction.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tibcal"

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	ConversionsTotal *prometheus.CounterVec
	ExportsTotal     *prometheus.CounterVec
	TableMonths      prometheus.Gauge
	TableBuildTime   prometheus.Gauge
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		ConversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Dates converted, by direction",
			},
			[]string{"direction"},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Month table snapshots written to the export store",
			},
			[]string{"result"},
		),
		TableMonths: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "table_months",
				Help:      "Month descriptors in the in-memory table",
			},
		),
		TableBuildTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "table_build_seconds",
				Help:      "Time spent building the month table at startup",
			},
		),
	}

	m.registry.MustRegister(prometheus.NewGoCollector())
	m.registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInFlight,
		m.ConversionsTotal,
		m.ExportsTotal,
		m.TableMonths,
		m.TableBuildTime,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordTable sets the table gauges after a build.
func (m *Metrics) RecordTable(months int, d time.Duration) {
	m.TableMonths.Set(float64(months))
	m.TableBuildTime.Set(d.Seconds())
}

// Conversion direction labels.
const (
	DirectionToGregorian = "to_gregorian"
	DirectionToTibetan   = "to_tibetan"
)

// AddConversions counts n converted dates in one direction.
func (m *Metrics) AddConversions(direction string, n int) {
	m.ConversionsTotal.WithLabelValues(direction).Add(float64(n))
}

// ObserveExport counts one export attempt.
func (m *Metrics) ObserveExport(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ExportsTotal.WithLabelValues(result).Inc()
}
