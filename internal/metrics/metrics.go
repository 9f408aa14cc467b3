// Package metrics provides Prometheus metrics for the prediction engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// PredictorMetrics collects and exposes prediction-related Prometheus metrics.
// All recording methods are safe to call on a nil receiver.
type PredictorMetrics struct {
	registry *prometheus.Registry

	// Prediction metrics
	PredictionsTotal   *prometheus.CounterVec
	PredictionDuration *prometheus.HistogramVec
	ConfidenceScore    *prometheus.HistogramVec

	// Cache metrics
	CacheRequests *prometheus.CounterVec

	// Aggregation metrics
	SourceFailures *prometheus.CounterVec
	DataQuality    *prometheus.HistogramVec

	// LLM metrics
	LLMResults *prometheus.CounterVec

	// Persistence metrics
	PersistenceFailures *prometheus.CounterVec

	// Backtest metrics
	BacktestMatches *prometheus.CounterVec
	BacktestROI     *prometheus.GaugeVec
}

// NewPredictorMetrics creates a new metrics collector on a private registry.
func NewPredictorMetrics() *PredictorMetrics {
	registry := prometheus.NewRegistry()

	pm := &PredictorMetrics{
		registry: registry,

		PredictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictor_predictions_total",
				Help: "Total number of predictions generated",
			},
			[]string{"source", "confidence"},
		),
		PredictionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "predictor_prediction_duration_seconds",
				Help:    "Time to generate a prediction, cache misses only",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"source"},
		),
		ConfidenceScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "predictor_confidence_score",
				Help:    "Overall confidence score of generated predictions",
				Buckets: prometheus.LinearBuckets(20, 10, 8),
			},
			[]string{"source"},
		),

		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictor_cache_requests_total",
				Help: "Prediction cache lookups by result",
			},
			[]string{"result"},
		),

		SourceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictor_source_failures_total",
				Help: "Failed data provider calls during aggregation",
			},
			[]string{"source"},
		),
		DataQuality: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "predictor_data_quality_score",
				Help:    "Data quality score of aggregated match data",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"reliability"},
		),

		LLMResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictor_llm_results_total",
				Help: "LLM estimator results by kind",
			},
			[]string{"result"},
		),

		PersistenceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictor_persistence_failures_total",
				Help: "Predictions that could not be persisted",
			},
			[]string{},
		),

		BacktestMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictor_backtest_matches_total",
				Help: "Matches replayed by the backtest engine",
			},
			[]string{"status"},
		),
		BacktestROI: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "predictor_backtest_roi_pct",
				Help: "Flat-stake ROI of the last backtest run",
			},
			[]string{"market"},
		),
	}

	pm.registerAll()

	return pm
}

func (pm *PredictorMetrics) registerAll() {
	pm.registry.MustRegister(
		pm.PredictionsTotal,
		pm.PredictionDuration,
		pm.ConfidenceScore,
		pm.CacheRequests,
		pm.SourceFailures,
		pm.DataQuality,
		pm.LLMResults,
		pm.PersistenceFailures,
		pm.BacktestMatches,
		pm.BacktestROI,
	)
}

// Registry returns the prometheus registry.
func (pm *PredictorMetrics) Registry() *prometheus.Registry {
	return pm.registry
}

// --- Helper methods for recording metrics ---

// RecordPrediction records a freshly generated prediction.
func (pm *PredictorMetrics) RecordPrediction(source, confidence string, score int, durationSec float64) {
	if pm == nil {
		return
	}
	pm.PredictionsTotal.WithLabelValues(source, confidence).Inc()
	pm.ConfidenceScore.WithLabelValues(source).Observe(float64(score))
	if durationSec > 0 {
		pm.PredictionDuration.WithLabelValues(source).Observe(durationSec)
	}
}

// RecordCacheHit records a prediction served from cache.
func (pm *PredictorMetrics) RecordCacheHit() {
	if pm == nil {
		return
	}
	pm.CacheRequests.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a cache lookup that found nothing usable.
func (pm *PredictorMetrics) RecordCacheMiss() {
	if pm == nil {
		return
	}
	pm.CacheRequests.WithLabelValues("miss").Inc()
}

// RecordSourceFailure records a failed provider call.
func (pm *PredictorMetrics) RecordSourceFailure(source string) {
	if pm == nil {
		return
	}
	pm.SourceFailures.WithLabelValues(source).Inc()
}

// RecordDataQuality records the quality of one aggregation.
func (pm *PredictorMetrics) RecordDataQuality(reliability string, score int) {
	if pm == nil {
		return
	}
	pm.DataQuality.WithLabelValues(reliability).Observe(float64(score))
}

// RecordLLMResult records the kind of result the LLM estimator returned.
func (pm *PredictorMetrics) RecordLLMResult(result string) {
	if pm == nil {
		return
	}
	pm.LLMResults.WithLabelValues(result).Inc()
}

// RecordPersistenceFailure records a prediction that was not saved.
func (pm *PredictorMetrics) RecordPersistenceFailure() {
	if pm == nil {
		return
	}
	pm.PersistenceFailures.WithLabelValues().Inc()
}

// RecordBacktestMatch records one replayed match as evaluated or skipped.
func (pm *PredictorMetrics) RecordBacktestMatch(status string) {
	if pm == nil {
		return
	}
	pm.BacktestMatches.WithLabelValues(status).Inc()
}

// UpdateBacktestROI sets the ROI gauge of a market.
func (pm *PredictorMetrics) UpdateBacktestROI(market string, roi decimal.Decimal) {
	if pm == nil {
		return
	}
	pm.BacktestROI.WithLabelValues(market).Set(DecimalToFloat64(roi))
}

// --- Decimal helpers ---

// DecimalToFloat64 converts decimal.Decimal to float64 for metrics.
func DecimalToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Global instance for convenience
var defaultMetrics *PredictorMetrics
var once sync.Once

// Default returns the default global metrics instance.
func Default() *PredictorMetrics {
	once.Do(func() {
		defaultMetrics = NewPredictorMetrics()
	})
	return defaultMetrics
}
