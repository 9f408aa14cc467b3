package estimator

import (
	"fmt"
	"math"
	"sort"

	"github.com/Alias1177/FootballPredictor/internal/probability"
	"github.com/Alias1177/FootballPredictor/models"
)

const htftConfidence = 55

// Conditional probabilities of the full-time result given a half-time lead
var leaderKeeps = map[models.Outcome][3]float64{
	models.OutcomeHome: {0.70, 0.20, 0.10},
	models.OutcomeAway: {0.10, 0.20, 0.70},
}

// HTFT estimates the nine half-time/full-time combinations
type HTFT struct{}

// NewHTFT creates the half-time/full-time estimator
func NewHTFT() *HTFT { return &HTFT{} }

// Name implements Estimator
func (h *HTFT) Name() string { return "htft" }

// Estimate implements Estimator using neutral full-time probabilities
func (h *HTFT) Estimate(data *models.AggregatedMatchData) models.HTFTPrediction {
	return h.EstimateWithOutcome(data, nil)
}

// EstimateWithOutcome keeps the full-time side consistent with an already
// computed match outcome
func (h *HTFT) EstimateWithOutcome(data *models.AggregatedMatchData, outcome *models.MatchOutcomePrediction) models.HTFTPrediction {
	ft := [3]float64{0.40, 0.25, 0.35}
	if outcome != nil {
		ft = [3]float64{outcome.HomeWin / 100, outcome.Draw / 100, outcome.AwayWin / 100}
	}

	ht, factors := halfTimeProbabilities(data)

	combos := []string{"1/1", "1/X", "1/2", "X/1", "X/X", "X/2", "2/1", "2/X", "2/2"}
	raw := []float64{
		ht[0] * leaderKeeps[models.OutcomeHome][0],
		ht[0] * leaderKeeps[models.OutcomeHome][1],
		ht[0] * leaderKeeps[models.OutcomeHome][2],
		ht[1] * ft[0] * 1.1,
		ht[1] * 0.35,
		ht[1] * ft[2] * 0.9,
		ht[2] * leaderKeeps[models.OutcomeAway][0],
		ht[2] * leaderKeeps[models.OutcomeAway][1],
		ht[2] * leaderKeeps[models.OutcomeAway][2],
	}

	normalized := probability.NormalizeRounded(raw...)
	predictions := make([]models.HTFTProbability, len(combos))
	for i, c := range combos {
		predictions[i] = models.HTFTProbability{Combination: c, Probability: normalized[i]}
	}
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Probability > predictions[j].Probability
	})

	top := predictions[0]
	factors = append(factors, newFactor("htft",
		fmt.Sprintf("Most likely HT/FT: %s (%.1f%%)", top.Combination, top.Probability),
		models.ImpactNeutral, ""))

	conf := probability.Confidence(top.Probability/50, data.DataQuality.Score)
	if conf > htftConfidence {
		conf = htftConfidence
	}

	return models.HTFTPrediction{
		Predictions: predictions,
		MostLikely:  top.Combination,
		Confidence:  conf,
		Factors:     factors,
	}
}

// halfTimeProbabilities returns home/draw/away at the break, draw weighted,
// shifted by the first-half scoring tendency of both sides
func halfTimeProbabilities(data *models.AggregatedMatchData) ([3]float64, []models.PredictionFactor) {
	ht := [3]float64{0.30, 0.45, 0.25}
	if data.HomeStats == nil || data.AwayStats == nil {
		return ht, nil
	}

	homeStrength := scoringTendency(data.HomeStats, data.HomeRecent)
	awayStrength := scoringTendency(data.AwayStats, data.AwayRecent)
	d := homeStrength - awayStrength

	ht[0] = probability.Clamp(0.30+d*0.1, 0.15, 0.50)
	ht[1] = probability.Clamp(0.45-math.Abs(d)*0.05, 0.25, 0.55)
	ht[2] = probability.Clamp(0.25-d*0.1, 0.15, 0.45)

	n := probability.Normalize(ht[0], ht[1], ht[2])
	ht = [3]float64{n[0] / 100, n[1] / 100, n[2] / 100}

	factors := []models.PredictionFactor{newFactor("first_half",
		fmt.Sprintf("Half-time: %.0f%% / %.0f%% / %.0f%%", ht[0]*100, ht[1]*100, ht[2]*100),
		thresholdImpact(d, 0.2, -0.2), "")}
	return ht, factors
}

func scoringTendency(stats *models.TeamSeasonStats, recent []models.RecentMatch) float64 {
	avg := stats.GoalsForAvg.Total
	if len(recent) > 0 {
		last := recent
		if len(last) > 5 {
			last = last[:5]
		}
		goals := 0
		for _, m := range last {
			goals += m.GoalsScored
		}
		avg = float64(goals) / float64(len(last))
	}
	return (avg - probability.DefaultGoalRate) / probability.DefaultGoalRate
}
