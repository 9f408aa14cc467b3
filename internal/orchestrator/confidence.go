package orchestrator

import (
	"math"

	"github.com/Alias1177/FootballPredictor/internal/probability"
	"github.com/Alias1177/FootballPredictor/models"
)

// Bounds of the overall confidence score
const (
	MinConfidence = 20
	MaxConfidence = 95

	highConfidence   = 70
	mediumConfidence = 50

	matchWinnerOddsBonus = 15.0
	otherOddsBonus       = 5.0
	maxFactors           = 10
	factorsPerMarket     = 2
)

// ConfidenceWeights weight the per-market confidences in the overall score
type ConfidenceWeights struct {
	Outcome      float64
	BTTS         float64
	OverUnder    float64
	CorrectScore float64
	HTFT         float64
	Stats        float64
}

// DefaultConfidenceWeights returns the hand-tuned market weights
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{
		Outcome:      0.35,
		BTTS:         0.15,
		OverUnder:    0.25,
		CorrectScore: 0.05,
		HTFT:         0.05,
		Stats:        0.15,
	}
}

// OverallConfidence scores a prediction from its markets, data quality and odds
func OverallConfidence(p *models.CompletePrediction, w ConfidenceWeights) (int, models.ConfidenceLevel) {
	weighted := float64(p.MatchOutcome.Confidence)*w.Outcome +
		float64(p.BTTS.Confidence)*w.BTTS +
		float64(p.OverUnder.Confidence)*w.OverUnder +
		float64(p.CorrectScore.Confidence)*w.CorrectScore +
		float64(p.HTFT.Confidence)*w.HTFT +
		float64(p.Stats.Confidence)*w.Stats

	score := weighted * float64(p.DataQuality.Score) / 100

	switch {
	case p.Odds.HasMatchWinner():
		score += matchWinnerOddsBonus
	case p.Odds.HasTotals() || p.Odds.HasBTTS():
		score += otherOddsBonus
	}

	score += agreementBonus(p)

	final := int(math.Round(probability.Clamp(score, MinConfidence, MaxConfidence)))
	return final, LevelFor(final)
}

// LevelFor maps a confidence score to its tier
func LevelFor(score int) models.ConfidenceLevel {
	switch {
	case score >= highConfidence:
		return models.ConfidenceHigh
	case score >= mediumConfidence:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// agreementBonus rewards markets pointing the same way
func agreementBonus(p *models.CompletePrediction) float64 {
	var bonus float64
	xg := p.OverUnder.ExpectedGoals

	if p.MatchOutcome.HomeWin > 50 && xg > 2.5 {
		bonus += 3
	}
	if p.MatchOutcome.AwayWin > 50 && xg > 2.5 {
		bonus += 3
	}
	if p.BTTS.Yes > 60 && p.OverUnder.Lines["2.5"].Over > 55 {
		bonus += 2
	}
	if p.BTTS.No > 60 && xg < 2.0 {
		bonus += 2
	}
	return bonus
}

// CollectFactors takes the leading factors of each market in order
func CollectFactors(groups ...[]models.PredictionFactor) []models.PredictionFactor {
	var factors []models.PredictionFactor
	for _, g := range groups {
		if len(g) > factorsPerMarket {
			g = g[:factorsPerMarket]
		}
		factors = append(factors, g...)
	}
	if len(factors) > maxFactors {
		factors = factors[:maxFactors]
	}
	return factors
}
