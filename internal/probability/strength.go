package probability

import (
	"math"

	"github.com/Alias1177/FootballPredictor/models"
)

// Calibration constants of the expected-goals and form models
const (
	LeagueAverageGoals = 1.42
	HomeAdvantage      = 1.08
	MinExpectedGoals   = 0.4
	MaxExpectedGoals   = 3.5
	DefaultGoalRate    = 1.3

	FormWindow       = 10
	FormDecay        = 0.85
	FormGoalDiffStep = 3.0
	NeutralStrength  = 50.0
)

// ExpectedGoals estimates the goals the team scores against opp.
// Missing stats fall back to DefaultGoalRate for that side of the calculation.
func ExpectedGoals(team, opp *models.TeamSeasonStats, isHome bool) float64 {
	scoring := DefaultGoalRate
	if team != nil {
		scoring = sideAverage(team.GoalsForAvg, isHome)
	}

	conceding := DefaultGoalRate
	if opp != nil {
		conceding = sideAverage(opp.GoalsAgainstAvg, !isHome)
	}

	attack := scoring / LeagueAverageGoals
	defense := conceding / LeagueAverageGoals
	xg := attack * defense * LeagueAverageGoals
	if isHome {
		xg *= HomeAdvantage
	}
	return Round(clamp(xg, MinExpectedGoals, MaxExpectedGoals), 2)
}

func sideAverage(avg models.SplitFloat, home bool) float64 {
	if v := avg.Side(home); v > 0 {
		return v
	}
	if avg.Total > 0 {
		return avg.Total
	}
	return DefaultGoalRate
}

// FormStrength scores recent matches (most recent first) on a 0-100 scale.
// Wins count 100, draws 50, losses 0, each shifted by the goal difference.
func FormStrength(recent []models.RecentMatch) float64 {
	if len(recent) == 0 {
		return NeutralStrength
	}
	if len(recent) > FormWindow {
		recent = recent[:FormWindow]
	}

	var weighted, totalWeight float64
	weight := 1.0
	for _, m := range recent {
		var points float64
		switch m.Result {
		case "W":
			points = 100
		case "D":
			points = 50
		}
		points += float64(m.GoalsScored-m.GoalsConceded) * FormGoalDiffStep

		weighted += clamp(points, 0, 100) * weight
		totalWeight += weight
		weight *= FormDecay
	}
	return clamp(weighted/totalWeight, 0, 100)
}

// PositionStrength maps a league rank to 0-100, top of the table being 100
func PositionStrength(position, totalTeams int) float64 {
	if position <= 0 || totalTeams <= 1 {
		return NeutralStrength
	}
	return clamp(float64(totalTeams-position)/float64(totalTeams-1)*100, 0, 100)
}

// Confidence combines an estimator-specific certainty in [0,1] with the data
// quality score into a 0-95 confidence
func Confidence(certainty float64, dataQuality int) int {
	certainty = clamp(certainty, 0, 1)
	quality := clamp(float64(dataQuality), 0, 100) / 100
	return int(math.Min(95, math.Round((certainty*0.6+quality*0.4)*100)))
}

// FormString returns the last n results as a string such as "WWDLW"
func FormString(recent []models.RecentMatch, n int) string {
	if len(recent) > n {
		recent = recent[:n]
	}
	out := make([]byte, 0, len(recent))
	for _, m := range recent {
		if m.Result != "" {
			out = append(out, m.Result[0])
		}
	}
	return string(out)
}
