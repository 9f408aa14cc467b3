// Package llm implements the optional language-model estimator for the
// outcome, BTTS and over/under markets.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/Alias1177/FootballPredictor/internal/metrics"
	"github.com/Alias1177/FootballPredictor/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Completer is the text generation provider
type Completer interface {
	GenerateCompletion(ctx context.Context, system, prompt string) (string, error)
}

// Options configures the estimator
type Options struct {
	Enabled  bool
	Provider string
	// APIKey of the configured provider; empty makes the estimator unavailable
	APIKey string
}

// Estimator asks a language model for outcome, BTTS and over/under probabilities
type Estimator struct {
	completer Completer
	opts      Options
	metrics   *metrics.PredictorMetrics
	logger    zerolog.Logger
}

// New creates an LLM estimator. completer and m may be nil.
func New(completer Completer, opts Options, m *metrics.PredictorMetrics) *Estimator {
	return &Estimator{
		completer: completer,
		opts:      opts,
		metrics:   m,
		logger:    log.With().Str("component", "llm_estimator").Str("provider", opts.Provider).Logger(),
	}
}

// Available reports whether Predict can reach a provider at all
func (e *Estimator) Available() bool {
	return e != nil && e.opts.Enabled && e.opts.APIKey != "" && e.completer != nil
}

// Predict never returns an error; failures are carried in Failed
func (e *Estimator) Predict(ctx context.Context, data *models.AggregatedMatchData) Result {
	if !e.Available() {
		return Unavailable{}
	}

	result := e.predict(ctx, data)
	e.metrics.RecordLLMResult(Kind(result))
	return result
}

func (e *Estimator) predict(ctx context.Context, data *models.AggregatedMatchData) Result {
	start := time.Now()
	e.logger.Info().Str("match_id", data.Match.ID).Msg("Requesting LLM prediction")

	text, err := e.completer.GenerateCompletion(ctx, SystemPrompt, BuildPrompt(data))
	if err != nil {
		e.logger.Error().Err(err).Str("match_id", data.Match.ID).Msg("LLM prediction failed")
		return Failed{Err: err}
	}
	if text == "" {
		return Failed{Err: errors.New("empty LLM response")}
	}

	prediction, err := ParseResponse(text)
	if err != nil {
		e.logger.Error().Err(err).Str("response", text).Msg("Failed to parse LLM response")
		return Failed{Err: err}
	}

	e.logger.Info().
		Str("match_id", data.Match.ID).
		Dur("latency", time.Since(start)).
		Str("predicted", string(prediction.MatchOutcome.Predicted)).
		Msg("LLM prediction received")

	return Ok{Prediction: prediction}
}
