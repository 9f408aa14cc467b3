// Package estimator implements the statistical market estimators. Each market
// is a separate strategy sharing the primitives in internal/probability.
package estimator

import (
	"github.com/Alias1177/FootballPredictor/internal/probability"
	"github.com/Alias1177/FootballPredictor/models"
)

// Estimator produces one typed market prediction from aggregated match data
type Estimator[T any] interface {
	Name() string
	Estimate(data *models.AggregatedMatchData) T
}

// Weights are the blend weights of the five outcome components
type Weights struct {
	Poisson   float64
	Form      float64
	Standings float64
	H2H       float64
	Odds      float64
}

// DefaultWeights returns the hand-tuned outcome blend
func DefaultWeights() Weights {
	return Weights{
		Poisson:   0.35,
		Form:      0.20,
		Standings: 0.15,
		H2H:       0.10,
		Odds:      0.20,
	}
}

// Config centralizes the tunable constants of the estimators
type Config struct {
	Weights Weights
	// Lines whose leading side exceeds this percentage are not recommended
	MaxRecommendedLineProbability float64
	// Minimum deviation from 50% for a line to be recommended over the xG heuristic
	MinRecommendedDeviation float64
}

// DefaultConfig returns the default estimator configuration
func DefaultConfig() Config {
	return Config{
		Weights:                       DefaultWeights(),
		MaxRecommendedLineProbability: 80,
		MinRecommendedDeviation:       10,
	}
}

// Ensemble bundles one estimator per market
type Ensemble struct {
	Outcome      *Outcome
	BTTS         *BTTS
	OverUnder    *OverUnder
	CorrectScore *CorrectScore
	HTFT         *HTFT
	Stats        *Stats
}

// NewEnsemble creates all statistical estimators from one config
func NewEnsemble(cfg Config) *Ensemble {
	return &Ensemble{
		Outcome:      NewOutcome(cfg.Weights),
		BTTS:         NewBTTS(),
		OverUnder:    NewOverUnder(cfg),
		CorrectScore: NewCorrectScore(),
		HTFT:         NewHTFT(),
		Stats:        NewStats(),
	}
}

// expectedGoals returns the home and away xG used by every goal-based market
func expectedGoals(data *models.AggregatedMatchData) (float64, float64) {
	home := probability.ExpectedGoals(data.HomeStats, data.AwayStats, true)
	away := probability.ExpectedGoals(data.AwayStats, data.HomeStats, false)
	return home, away
}

func newFactor(kind, description string, impact models.Impact, team string) models.PredictionFactor {
	return models.PredictionFactor{
		Type:        kind,
		Description: description,
		Impact:      impact,
		Team:        team,
	}
}

func thresholdImpact(value, positiveAbove, negativeBelow float64) models.Impact {
	switch {
	case value > positiveAbove:
		return models.ImpactPositive
	case value < negativeBelow:
		return models.ImpactNegative
	default:
		return models.ImpactNeutral
	}
}
