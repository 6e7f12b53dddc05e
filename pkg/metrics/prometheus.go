package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	cycleDuration    prometheus.Histogram
	sourceErrors     *prometheus.CounterVec
	lastPrice        prometheus.Gauge
	verdicts         *prometheus.CounterVec
	confidence       prometheus.Gauge
	signalsAvailable prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "btcpulse_refresh_cycle_duration_seconds",
				Help:    "Duration of full refresh cycles in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
			},
		),
		sourceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcpulse_source_errors_total",
				Help: "Total number of source fetch failures",
			},
			[]string{"source"},
		),
		lastPrice: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "btcpulse_btc_price",
				Help: "Last observed BTC spot price",
			},
		),
		verdicts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcpulse_verdicts_total",
				Help: "Total verdicts published by direction",
			},
			[]string{"direction"},
		),
		confidence: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "btcpulse_verdict_confidence",
				Help: "Confidence of the most recent verdict",
			},
		),
		signalsAvailable: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "btcpulse_signals_available",
				Help: "Number of sub-signals available in the most recent cycle",
			},
		),
	}
}

// RecordCycleDuration records a completed refresh cycle's duration in seconds.
func (r *Recorder) RecordCycleDuration(seconds float64) {
	r.cycleDuration.Observe(seconds)
}

// RecordSourceError records a fetch failure for a source.
func (r *Recorder) RecordSourceError(source string) {
	r.sourceErrors.WithLabelValues(source).Inc()
}

// RecordLastPrice records the last observed BTC price.
func (r *Recorder) RecordLastPrice(price float64) {
	r.lastPrice.Set(price)
}

// RecordVerdict records a published verdict.
func (r *Recorder) RecordVerdict(direction string, confidence float64) {
	r.verdicts.WithLabelValues(direction).Inc()
	r.confidence.Set(confidence)
}

// RecordSignalsAvailable records how many sub-signals this cycle produced.
func (r *Recorder) RecordSignalsAvailable(n int) {
	r.signalsAvailable.Set(float64(n))
}
