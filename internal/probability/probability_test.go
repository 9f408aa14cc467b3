package probability

import (
	"math"
	"testing"

	"github.com/Alias1177/FootballPredictor/models"
	"github.com/stretchr/testify/assert"
)

func TestPoissonPMFSumsToOne(t *testing.T) {
	for _, lambda := range []float64{0.4, 1.1, 1.8, 2.7, 3.5} {
		sum := 0.0
		for k := 0; k <= 30; k++ {
			sum += PoissonPMF(lambda, k)
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "lambda=%v", lambda)
		assert.Equal(t, PoissonPMF(lambda, 0), PoissonCDF(lambda, 0))
	}
}

func TestPoissonPMFZeroRate(t *testing.T) {
	assert.Equal(t, 1.0, PoissonPMF(0, 0))
	assert.Equal(t, 0.0, PoissonPMF(0, 2))
	assert.Equal(t, 0.0, PoissonPMF(1.5, -1))
}

func TestRateForOverProbability(t *testing.T) {
	lambda := RateForOverProbability(60, 2.5)
	over := (1 - PoissonCDF(lambda, 2)) * 100
	assert.InDelta(t, 60, over, 0.01)
}

func TestNormalizeRounded(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"odds triple", []float64{55.56, 27.78, 23.81}},
		{"thirds", []float64{1, 1, 1}},
		{"all zero", []float64{0, 0, 0}},
		{"pair", []float64{0.123, 0.877}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NormalizeRounded(tt.values...)
			sum := 0.0
			for _, v := range out {
				sum += v
				assert.Equal(t, Round(v, 1), v)
			}
			assert.InDelta(t, 100.0, sum, 1e-9)
		})
	}
}

func TestOddsToProbability(t *testing.T) {
	assert.Equal(t, 0.0, OddsToProbability(1))
	assert.Equal(t, 0.0, OddsToProbability(0))
	assert.InDelta(t, 50.0, OddsToProbability(2), 1e-9)
}

func TestExpectedGoalsClamp(t *testing.T) {
	prolific := &models.TeamSeasonStats{
		GoalsForAvg:     models.SplitFloat{Home: 9, Away: 9, Total: 9},
		GoalsAgainstAvg: models.SplitFloat{Home: 9, Away: 9, Total: 9},
	}
	blunt := &models.TeamSeasonStats{
		GoalsForAvg:     models.SplitFloat{Home: 0.01, Away: 0.01, Total: 0.01},
		GoalsAgainstAvg: models.SplitFloat{Home: 0.01, Away: 0.01, Total: 0.01},
	}

	assert.Equal(t, MaxExpectedGoals, ExpectedGoals(prolific, prolific, true))
	assert.Equal(t, MinExpectedGoals, ExpectedGoals(blunt, blunt, false))

	xg := ExpectedGoals(nil, nil, false)
	assert.InDelta(t, DefaultGoalRate*DefaultGoalRate/LeagueAverageGoals, xg, 0.01)
	assert.Greater(t, ExpectedGoals(nil, nil, true), xg)
}

func TestFormStrength(t *testing.T) {
	win := models.RecentMatch{Result: "W", GoalsScored: 2, GoalsConceded: 0}
	draw := models.RecentMatch{Result: "D", GoalsScored: 1, GoalsConceded: 1}
	loss := models.RecentMatch{Result: "L", GoalsScored: 0, GoalsConceded: 3}

	tests := []struct {
		name     string
		recent   []models.RecentMatch
		expected float64
	}{
		{"no matches", nil, 50},
		{"all draws", []models.RecentMatch{draw, draw, draw}, 50},
		{"all wins capped", []models.RecentMatch{win, win}, 100},
		{"all losses floored", []models.RecentMatch{loss, loss}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, FormStrength(tt.recent), 1e-9)
		})
	}

	recentWin := FormStrength([]models.RecentMatch{win, loss})
	recentLoss := FormStrength([]models.RecentMatch{loss, win})
	assert.Greater(t, recentWin, recentLoss)
}

func TestPositionStrength(t *testing.T) {
	assert.Equal(t, 100.0, PositionStrength(1, 20))
	assert.Equal(t, 0.0, PositionStrength(20, 20))
	assert.Equal(t, NeutralStrength, PositionStrength(0, 20))
	assert.Equal(t, NeutralStrength, PositionStrength(1, 1))
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 40, Confidence(0, 100))
	assert.Equal(t, 95, Confidence(1, 100))
	assert.Equal(t, 60, Confidence(1, 0))
	assert.Equal(t, 95, Confidence(math.Inf(1), 100))
}

func TestFormString(t *testing.T) {
	recent := []models.RecentMatch{{Result: "W"}, {Result: "D"}, {Result: "L"}, {Result: "W"}}
	assert.Equal(t, "WDL", FormString(recent, 3))
	assert.Equal(t, "", FormString(nil, 5))
}
