// Package orchestrator turns a match id into a complete, cached prediction.
package orchestrator

import (
	"context"
	"time"

	"github.com/Alias1177/FootballPredictor/internal/cache"
	"github.com/Alias1177/FootballPredictor/internal/estimator"
	"github.com/Alias1177/FootballPredictor/internal/llm"
	"github.com/Alias1177/FootballPredictor/internal/metrics"
	"github.com/Alias1177/FootballPredictor/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultAITimeout bounds the LLM call when no timeout is configured
const DefaultAITimeout = 30 * time.Second

// Aggregator assembles the inputs of one prediction
type Aggregator interface {
	Aggregate(ctx context.Context, matchID string) (*models.AggregatedMatchData, error)
}

// LLMEstimator is the optional language-model path
type LLMEstimator interface {
	Predict(ctx context.Context, data *models.AggregatedMatchData) llm.Result
}

// Options configures the engine
type Options struct {
	Estimators        estimator.Config
	ConfidenceWeights ConfidenceWeights
	AITimeout         time.Duration
	PersistQueue      int
}

// DefaultOptions returns the default engine configuration
func DefaultOptions() Options {
	return Options{
		Estimators:        estimator.DefaultConfig(),
		ConfidenceWeights: DefaultConfidenceWeights(),
		AITimeout:         DefaultAITimeout,
		PersistQueue:      defaultPersistQueue,
	}
}

// Engine runs aggregation, estimation, confidence scoring and caching
type Engine struct {
	aggregator Aggregator
	ensemble   *estimator.Ensemble
	llm        LLMEstimator
	cache      cache.Cache
	persister  *persister
	opts       Options
	metrics    *metrics.PredictorMetrics
	logger     zerolog.Logger

	now   func() time.Time
	newID func() string
}

// New creates an engine. llmEstimator, c, store and m may be nil.
func New(agg Aggregator, llmEstimator LLMEstimator, c cache.Cache, store Store, opts Options, m *metrics.PredictorMetrics) *Engine {
	if opts.AITimeout <= 0 {
		opts.AITimeout = DefaultAITimeout
	}

	e := &Engine{
		aggregator: agg,
		ensemble:   estimator.NewEnsemble(opts.Estimators),
		llm:        llmEstimator,
		cache:      c,
		opts:       opts,
		metrics:    m,
		logger:     log.With().Str("component", "orchestrator").Logger(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	if store != nil {
		e.persister = newPersister(store, opts.PersistQueue, m, e.logger)
	}
	return e
}

// Close waits for pending prediction writes
func (e *Engine) Close() {
	if e.persister != nil {
		e.persister.close()
	}
}

// GetPrediction returns the cached prediction of a match or generates a new one.
// The only error is a failure to load the match itself.
func (e *Engine) GetPrediction(ctx context.Context, matchID string, forceRefresh bool) (*models.CompletePrediction, error) {
	if !forceRefresh && e.cache != nil {
		cached, err := e.cache.Get(ctx, matchID)
		if err != nil {
			e.logger.Warn().Err(err).Str("match_id", matchID).Msg("Cache lookup failed")
		}
		if cached != nil {
			e.logger.Debug().Str("match_id", matchID).Msg("Returning cached prediction")
			e.metrics.RecordCacheHit()
			return cached, nil
		}
		e.metrics.RecordCacheMiss()
	}

	return e.generate(ctx, matchID)
}

func (e *Engine) generate(ctx context.Context, matchID string) (*models.CompletePrediction, error) {
	start := time.Now()
	e.logger.Info().Str("match_id", matchID).Bool("llm", e.llm != nil).Msg("Generating prediction")

	data, err := e.aggregator.Aggregate(ctx, matchID)
	if err != nil {
		return nil, err
	}

	llmResult := e.startLLM(ctx, data)

	outcome := e.ensemble.Outcome.Estimate(data)
	btts := e.ensemble.BTTS.Estimate(data)
	overUnder := e.ensemble.OverUnder.Estimate(data)
	correctScore := e.ensemble.CorrectScore.Estimate(data)
	stats := e.ensemble.Stats.Estimate(data)

	source := models.SourceStatistical
	var analysis string

	switch r := (<-llmResult).(type) {
	case llm.Ok:
		outcome = r.Prediction.MatchOutcome
		btts = r.Prediction.BTTS
		overUnder = r.Prediction.OverUnder
		analysis = r.Prediction.Analysis
		source = models.SourceLLM
	case llm.Failed:
		e.logger.Warn().Err(r.Err).Str("match_id", matchID).Msg("LLM estimator failed, using statistical ensemble")
	}

	htft := e.ensemble.HTFT.EstimateWithOutcome(data, &outcome)

	generatedAt := e.now()
	ttl := cache.CalculateTTL(data.Match.Kickoff, generatedAt)

	prediction := &models.CompletePrediction{
		ID:           e.newID(),
		MatchID:      matchID,
		GeneratedAt:  generatedAt,
		ExpiresAt:    generatedAt.Add(ttl),
		Source:       source,
		MatchOutcome: outcome,
		BTTS:         btts,
		OverUnder:    overUnder,
		CorrectScore: correctScore,
		HTFT:         htft,
		Stats:        stats,
		DataQuality:  data.DataQuality,
		Odds:         data.Odds,
	}
	prediction.ConfidenceScore, prediction.Confidence = OverallConfidence(prediction, e.opts.ConfidenceWeights)
	prediction.Factors = CollectFactors(
		outcome.Factors, btts.Factors, overUnder.Factors,
		correctScore.Factors, htft.Factors, stats.Factors,
	)
	if analysis == "" {
		analysis = TemplateAnalysis(data, prediction)
	}
	prediction.AIAnalysis = analysis

	if e.cache != nil {
		if err := e.cache.Set(ctx, matchID, prediction, ttl); err != nil {
			e.logger.Warn().Err(err).Str("match_id", matchID).Msg("Failed to cache prediction")
		}
	}
	if e.persister != nil {
		e.persister.enqueue(prediction)
	}

	e.metrics.RecordPrediction(string(source), string(prediction.Confidence), prediction.ConfidenceScore, time.Since(start).Seconds())
	e.logger.Info().
		Str("match_id", matchID).
		Str("source", string(source)).
		Str("confidence", string(prediction.Confidence)).
		Int("confidence_score", prediction.ConfidenceScore).
		Dur("ttl", ttl).
		Msg("Prediction generated")

	return prediction, nil
}

// startLLM runs the LLM estimator alongside the statistical ensemble
func (e *Engine) startLLM(ctx context.Context, data *models.AggregatedMatchData) <-chan llm.Result {
	result := make(chan llm.Result, 1)
	if e.llm == nil {
		result <- llm.Unavailable{}
		return result
	}

	go func() {
		llmCtx, cancel := context.WithTimeout(ctx, e.opts.AITimeout)
		defer cancel()
		result <- e.llm.Predict(llmCtx, data)
	}()
	return result
}
