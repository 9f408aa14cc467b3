package estimator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Alias1177/FootballPredictor/internal/probability"
	"github.com/Alias1177/FootballPredictor/models"
)

// OverUnder estimates goal totals at several lines
type OverUnder struct {
	maxLineProbability float64
	minDeviation       float64
}

// NewOverUnder creates the goal totals estimator
func NewOverUnder(cfg Config) *OverUnder {
	return &OverUnder{
		maxLineProbability: cfg.MaxRecommendedLineProbability,
		minDeviation:       cfg.MinRecommendedDeviation,
	}
}

// Name implements Estimator
func (o *OverUnder) Name() string { return "over_under" }

// Estimate implements Estimator
func (o *OverUnder) Estimate(data *models.AggregatedMatchData) models.OverUnderPrediction {
	homeXG, awayXG := expectedGoals(data)
	totalXG := homeXG + awayXG

	factors := []models.PredictionFactor{
		newFactor("xG",
			fmt.Sprintf("Total expected goals: %.2f (%.2f + %.2f)", totalXG, homeXG, awayXG),
			thresholdImpact(totalXG, 2.5, 2.0), ""),
	}

	over := make(map[string]float64, len(models.GoalLines))
	for _, line := range models.GoalLines {
		over[line] = PoissonOver(totalXG, line)
	}

	hasOdds := data.Odds.HasTotals()
	if h := data.HeadToHead; h != nil && h.Total > 0 {
		rate := float64(h.Over25Count) / float64(h.Total) * 100
		weight := 0.30
		if hasOdds {
			weight = 0.20
		}
		over["2.5"] = over["2.5"]*(1-weight) + rate*weight
		factors = append(factors, newFactor("h2h_goals",
			fmt.Sprintf("H2H O2.5: %d/%d matches (%.0f%%)", h.Over25Count, h.Total, rate),
			thresholdImpact(rate, 55, 45), ""))
	}

	if hasOdds {
		n := probability.Normalize(
			probability.OddsToProbability(data.Odds.OverUnder.Over25),
			probability.OddsToProbability(data.Odds.OverUnder.Under25),
		)
		over["2.5"] = over["2.5"]*0.65 + n[0]*0.35
		factors = append(factors, newFactor("odds",
			fmt.Sprintf("O2.5 odds: Over %.2f / Under %.2f", data.Odds.OverUnder.Over25, data.Odds.OverUnder.Under25),
			models.ImpactNeutral, ""))
	}

	factors = append(factors, recentGoalFactors(data.Match.HomeTeam.Name, data.HomeRecent, "home")...)
	factors = append(factors, recentGoalFactors(data.Match.AwayTeam.Name, data.AwayRecent, "away")...)

	lines := BuildLines(over)
	return models.OverUnderPrediction{
		Lines:         lines,
		ExpectedGoals: probability.Round(totalXG, 2),
		Recommended:   o.Recommend(lines, totalXG),
		Confidence:    probability.Confidence(math.Abs(lines["2.5"].Over-50)/50, data.DataQuality.Score),
		Factors:       factors,
	}
}

// PoissonOver is the percentage chance that more than line goals are scored
func PoissonOver(totalXG float64, line string) float64 {
	value, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 50
	}
	return (1 - probability.PoissonCDF(totalXG, int(math.Floor(value)))) * 100
}

// BuildLines rounds raw over percentages into complementary line pairs
func BuildLines(over map[string]float64) map[string]models.OverUnderLine {
	lines := make(map[string]models.OverUnderLine, len(over))
	for line, p := range over {
		o, u := probability.Complement(p)
		lines[line] = models.OverUnderLine{Over: o, Under: u}
	}
	return lines
}

// Recommend picks the most decisive line that still carries value. Without a
// decisive line it falls back to the 2.5 market judged on expected goals.
func (o *OverUnder) Recommend(lines map[string]models.OverUnderLine, totalXG float64) string {
	best, bestDeviation := "", 0.0
	for _, line := range models.GoalLines {
		l, ok := lines[line]
		if !ok {
			continue
		}
		if math.Max(l.Over, l.Under) > o.maxLineProbability {
			continue
		}
		if deviation := math.Abs(l.Over - 50); deviation > bestDeviation {
			bestDeviation = deviation
			if l.Over > 50 {
				best = "Over " + line
			} else {
				best = "Under " + line
			}
		}
	}

	if best == "" || bestDeviation < o.minDeviation {
		switch {
		case totalXG > 2.8:
			return "Over 2.5"
		case totalXG < 2.2:
			return "Under 2.5"
		case totalXG > 2.5:
			return "Over 2.5"
		default:
			return "Under 2.5"
		}
	}
	return best
}

func recentGoalFactors(team string, recent []models.RecentMatch, side string) []models.PredictionFactor {
	if len(recent) < 5 {
		return nil
	}
	goals := 0
	for _, m := range recent[:5] {
		goals += m.GoalsScored
	}
	avg := float64(goals) / 5
	return []models.PredictionFactor{newFactor("recent_goals",
		fmt.Sprintf("%s last 5: %d goals (avg. %.1f)", team, goals, avg),
		thresholdImpact(avg, 1.5, 1.0), side)}
}
