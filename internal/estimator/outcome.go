package estimator

import (
	"fmt"
	"math"

	"github.com/Alias1177/FootballPredictor/internal/probability"
	"github.com/Alias1177/FootballPredictor/models"
)

const (
	outcomeGridSize = 6
	uniformShare    = 33.33
	homeEdge        = 2.0
	drawFloor       = 28.0
	closeMargin     = 5.0
)

var balancedTriple = [3]float64{35, 30, 35}

// Outcome blends five component models into a 1X2 prediction
type Outcome struct {
	weights Weights
}

// NewOutcome creates the match outcome blender
func NewOutcome(weights Weights) *Outcome {
	return &Outcome{weights: weights}
}

// Name implements Estimator
func (o *Outcome) Name() string { return "match_outcome" }

// Estimate implements Estimator
func (o *Outcome) Estimate(data *models.AggregatedMatchData) models.MatchOutcomePrediction {
	homeXG, awayXG := expectedGoals(data)
	home, away := data.Match.HomeTeam.Name, data.Match.AwayTeam.Name

	var factors []models.PredictionFactor
	factors = append(factors, newFactor(
		"xG",
		fmt.Sprintf("Expected goals: %s %.2f - %.2f %s", home, homeXG, awayXG, away),
		thresholdImpact(homeXG-awayXG, 0.3, -0.3),
		"",
	))

	components := []struct {
		weight float64
		triple [3]float64
	}{
		{o.weights.Poisson, PoissonTriple(homeXG, awayXG)},
		{o.weights.Form, o.formTriple(data, &factors)},
		{o.weights.Standings, o.standingsTriple(data, &factors)},
		{o.weights.H2H, o.h2hTriple(data, &factors)},
		{o.weights.Odds, o.oddsTriple(data, &factors)},
	}

	var blended [3]float64
	for _, c := range components {
		for i := range blended {
			blended[i] += c.weight * c.triple[i]
		}
	}

	p := probability.NormalizeRounded(blended[0], blended[1], blended[2])
	prediction := models.MatchOutcomePrediction{
		HomeWin:   p[0],
		Draw:      p[1],
		AwayWin:   p[2],
		Predicted: DecideOutcome(p[0], p[1], p[2]),
		Factors:   factors,
	}

	maxProb := math.Max(p[0], math.Max(p[1], p[2]))
	certainty := (maxProb - uniformShare) / (100 - uniformShare)
	prediction.Confidence = probability.Confidence(certainty, data.DataQuality.Score)

	return prediction
}

// DecideOutcome picks the draw when it leads, or when it is live in a close
// match; otherwise the stronger side
func DecideOutcome(home, draw, away float64) models.Outcome {
	if draw >= home && draw >= away {
		return models.OutcomeDraw
	}
	if draw >= drawFloor && math.Abs(home-away) < closeMargin {
		return models.OutcomeDraw
	}
	if away > home {
		return models.OutcomeAway
	}
	return models.OutcomeHome
}

// PoissonTriple sums the 0-6 scoreline grid into home/draw/away percentages
func PoissonTriple(homeXG, awayXG float64) [3]float64 {
	var home, draw, away float64
	for i := 0; i <= outcomeGridSize; i++ {
		for j := 0; j <= outcomeGridSize; j++ {
			p := probability.PoissonPMF(homeXG, i) * probability.PoissonPMF(awayXG, j)
			switch {
			case i > j:
				home += p
			case i == j:
				draw += p
			default:
				away += p
			}
		}
	}
	n := probability.Normalize(home, draw, away)
	return [3]float64{n[0], n[1], n[2]}
}

func (o *Outcome) formTriple(data *models.AggregatedMatchData, factors *[]models.PredictionFactor) [3]float64 {
	homeForm := probability.FormStrength(data.HomeRecent)
	awayForm := probability.FormStrength(data.AwayRecent)

	for _, side := range []struct {
		team     string
		recent   []models.RecentMatch
		strength float64
	}{
		{"home", data.HomeRecent, homeForm},
		{"away", data.AwayRecent, awayForm},
	} {
		if len(side.recent) == 0 {
			continue
		}
		name := data.Match.HomeTeam.Name
		if side.team == "away" {
			name = data.Match.AwayTeam.Name
		}
		*factors = append(*factors, newFactor(
			"form",
			fmt.Sprintf("%s form (last 5): %s", name, probability.FormString(side.recent, 5)),
			thresholdImpact(side.strength, 60, 40),
			side.team,
		))
	}

	diff := homeForm - awayForm
	home := probability.Clamp(uniformShare+diff*0.25+homeEdge, 10, 70)
	away := probability.Clamp(uniformShare-diff*0.25, 10, 70)
	draw := probability.Clamp(100-home-away, 15, 40)

	n := probability.Normalize(home, draw, away)
	return [3]float64{n[0], n[1], n[2]}
}

func (o *Outcome) standingsTriple(data *models.AggregatedMatchData, factors *[]models.PredictionFactor) [3]float64 {
	s := data.Standings
	if s == nil {
		return balancedTriple
	}

	homeStrength := probability.PositionStrength(s.HomePosition, s.TotalTeams)
	awayStrength := probability.PositionStrength(s.AwayPosition, s.TotalTeams)
	diff := homeStrength - awayStrength

	*factors = append(*factors, newFactor(
		"standings",
		fmt.Sprintf("League position: %s #%d vs %s #%d",
			data.Match.HomeTeam.Name, s.HomePosition, data.Match.AwayTeam.Name, s.AwayPosition),
		thresholdImpact(diff, 20, -20),
		"",
	))

	home := math.Max(5, uniformShare+diff*0.2+homeEdge)
	away := math.Max(5, uniformShare-diff*0.2)
	n := probability.Normalize(home, drawFloor, away)
	return [3]float64{n[0], n[1], n[2]}
}

func (o *Outcome) h2hTriple(data *models.AggregatedMatchData, factors *[]models.PredictionFactor) [3]float64 {
	h := data.HeadToHead
	if h == nil || h.Total == 0 {
		return balancedTriple
	}

	total := float64(h.Total)
	*factors = append(*factors, newFactor(
		"h2h",
		fmt.Sprintf("Last %d H2H: %dW-%dD-%dL", h.Total, h.HomeWins, h.Draws, h.AwayWins),
		thresholdImpact(float64(h.HomeWins-h.AwayWins), 0, 0),
		"home",
	))

	return [3]float64{
		float64(h.HomeWins) / total * 100,
		float64(h.Draws) / total * 100,
		float64(h.AwayWins) / total * 100,
	}
}

func (o *Outcome) oddsTriple(data *models.AggregatedMatchData, factors *[]models.PredictionFactor) [3]float64 {
	odds := data.Odds
	if !odds.HasMatchWinner() {
		return balancedTriple
	}

	mw := odds.MatchWinner
	n := probability.Normalize(
		probability.OddsToProbability(mw.Home),
		probability.OddsToProbability(mw.Draw),
		probability.OddsToProbability(mw.Away),
	)

	*factors = append(*factors, newFactor(
		"odds",
		fmt.Sprintf("Market odds: %.2f / %.2f / %.2f (%s)", mw.Home, mw.Draw, mw.Away, odds.Bookmaker),
		thresholdImpact(n[0]-n[2], 10, -10),
		"",
	))

	return [3]float64{n[0], n[1], n[2]}
}
