package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsReceived *prometheus.CounterVec
	dispatches      *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigproc_signals_received_total",
				Help: "Total number of signals accepted for dispatch",
			},
			[]string{"result"},
		),
		dispatches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigproc_dispatches_total",
				Help: "Downstream dispatch calls by service and outcome",
			},
			[]string{"service", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigproc_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sigproc_dispatch_duration_seconds",
				Help:    "Duration of downstream dispatch calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}
}

// RecordSignalReceived records an accepted signal and how it settled.
func (r *Recorder) RecordSignalReceived(result string) {
	r.signalsReceived.WithLabelValues(result).Inc()
}

// RecordDispatch records one downstream call outcome.
func (r *Recorder) RecordDispatch(service, outcome string) {
	r.dispatches.WithLabelValues(service, outcome).Inc()
}

// RecordDispatchLatency records downstream call latency in seconds.
func (r *Recorder) RecordDispatchLatency(service string, seconds float64) {
	r.latency.WithLabelValues(service).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
