package obs

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors shared by the locator client
// and the store listing server.
type Metrics struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
	Fetches       *prometheus.CounterVec
	Acquisitions  *prometheus.CounterVec
}

// NewMetrics registers collectors against reg, defaulting to the global
// Prometheus registry when nil. Registering twice returns the existing
// collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Handled HTTP requests, labeled by path, method and status code.",
	}, []string{"path", "method", "code"}), "http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"path", "method"}), "http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	fetches, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_fetches_total",
		Help: "Store fetches issued by the locator, labeled by outcome (applied, superseded, failed).",
	}, []string{"outcome"}), "store_fetches_total")
	if err != nil {
		return nil, err
	}

	acquisitions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "location_acquisitions_total",
		Help: "Device location acquisitions, labeled by result (ok or failure reason).",
	}, []string{"result"}), "location_acquisitions_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:      gatherer,
		HTTPRequests:  requests,
		HTTPDurations: durations,
		Fetches:       fetches,
		Acquisitions:  acquisitions,
	}, nil
}

// ObserveHTTP records one handled request. Safe on a nil receiver.
func (m *Metrics) ObserveHTTP(path, method string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.HTTPDurations.WithLabelValues(path, method).Observe(dur.Seconds())
}

// FetchOutcome counts a finished store fetch. Safe on a nil receiver.
func (m *Metrics) FetchOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(outcome).Inc()
}

// AcquisitionResult counts a finished location acquisition. Safe on a nil receiver.
func (m *Metrics) AcquisitionResult(result string) {
	if m == nil {
		return
	}
	m.Acquisitions.WithLabelValues(result).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if m != nil && m.gatherer != nil {
		gatherer = m.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
