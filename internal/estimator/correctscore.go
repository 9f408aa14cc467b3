package estimator

import (
	"fmt"
	"sort"

	"github.com/Alias1177/FootballPredictor/internal/probability"
	"github.com/Alias1177/FootballPredictor/models"
)

const (
	scoreGridSize          = 5
	topScores              = 10
	correctScoreConfidence = 60
)

// CorrectScore estimates exact scorelines from a Poisson matrix
type CorrectScore struct{}

// NewCorrectScore creates the correct score estimator
func NewCorrectScore() *CorrectScore { return &CorrectScore{} }

// Name implements Estimator
func (c *CorrectScore) Name() string { return "correct_score" }

// Estimate implements Estimator
func (c *CorrectScore) Estimate(data *models.AggregatedMatchData) models.CorrectScorePrediction {
	homeXG, awayXG := expectedGoals(data)
	scores := ScoreMatrix(homeXG, awayXG)

	top := scores
	if len(top) > topScores {
		top = top[:topScores]
	}

	prediction := models.CorrectScorePrediction{
		TopPredictions: top,
		MostLikely:     top[0].Score,
	}

	var factors []models.PredictionFactor
	factors = append(factors, newFactor("scoreline",
		fmt.Sprintf("Most likely score %s (%.1f%%): %s", top[0].Score, top[0].Probability, describeScore(top[0])),
		models.ImpactNeutral, ""))
	factors = append(factors, commonH2HScores(data.HeadToHead)...)
	prediction.Factors = factors

	conf := probability.Confidence(top[0].Probability/20, data.DataQuality.Score)
	if conf > correctScoreConfidence {
		conf = correctScoreConfidence
	}
	prediction.Confidence = conf

	return prediction
}

// ScoreMatrix returns every scoreline up to 5-5 sorted by probability
func ScoreMatrix(homeXG, awayXG float64) []models.ScoreProbability {
	scores := make([]models.ScoreProbability, 0, (scoreGridSize+1)*(scoreGridSize+1))
	for h := 0; h <= scoreGridSize; h++ {
		for a := 0; a <= scoreGridSize; a++ {
			p := probability.PoissonPMF(homeXG, h) * probability.PoissonPMF(awayXG, a) * 100
			scores = append(scores, models.ScoreProbability{
				Score:       fmt.Sprintf("%d-%d", h, a),
				HomeGoals:   h,
				AwayGoals:   a,
				Probability: probability.Round(p, 2),
			})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Probability > scores[j].Probability
	})
	return scores
}

func describeScore(s models.ScoreProbability) string {
	total := s.HomeGoals + s.AwayGoals
	diff := s.HomeGoals - s.AwayGoals
	switch {
	case total == 0:
		return "goalless draw"
	case diff == 0:
		return "score draw"
	case total <= 2:
		return "low-scoring"
	case total >= 4:
		return "high-scoring"
	case diff >= 2 || diff <= -2:
		return "comfortable win"
	case diff > 0:
		return "narrow home win"
	default:
		return "narrow away win"
	}
}

func commonH2HScores(h *models.H2HData) []models.PredictionFactor {
	if h == nil || len(h.Matches) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, m := range h.Matches {
		score := fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore)
		if counts[score] == 0 {
			order = append(order, score)
		}
		counts[score]++
	}

	var factors []models.PredictionFactor
	for _, score := range order {
		if counts[score] > 1 {
			factors = append(factors, newFactor("h2h_score",
				fmt.Sprintf("Common H2H score: %s (%d times)", score, counts[score]),
				models.ImpactNeutral, ""))
		}
	}
	return factors
}
