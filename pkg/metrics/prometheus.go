package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes Prometheus metrics for the prediction service.
type Recorder struct {
	predictionsTotal *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	trainingSeconds  *prometheus.HistogramVec
	lastPrediction   *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_predictions_total",
				Help: "Total number of prediction requests served",
			},
			[]string{"endpoint", "result"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_cache_lookups_total",
				Help: "Result cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		trainingSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_training_duration_seconds",
				Help:    "Duration of the train-and-forecast pipeline in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		lastPrediction: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_last_predicted_price",
				Help: "Most recent 1-step predicted price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordPrediction records a served prediction request.
func (r *Recorder) RecordPrediction(endpoint, result string) {
	r.predictionsTotal.WithLabelValues(endpoint, result).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func (r *Recorder) RecordCacheLookup(outcome string) {
	r.cacheLookups.WithLabelValues(outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordTrainingDuration records pipeline duration in seconds.
func (r *Recorder) RecordTrainingDuration(endpoint string, seconds float64) {
	r.trainingSeconds.WithLabelValues(endpoint).Observe(seconds)
}

// RecordLastPrediction records the next-day predicted price for a symbol.
func (r *Recorder) RecordLastPrediction(symbol string, price float64) {
	r.lastPrediction.WithLabelValues(symbol).Set(price)
}
