package estimator

import (
	"testing"

	"github.com/Alias1177/FootballPredictor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseData() *models.AggregatedMatchData {
	return &models.AggregatedMatchData{
		Match: models.Match{
			ID:       "m1",
			HomeTeam: models.TeamInfo{ID: "h", ExternalID: 1, Name: "Arsenal"},
			AwayTeam: models.TeamInfo{ID: "a", ExternalID: 2, Name: "Chelsea"},
		},
		DataQuality: models.DataQuality{Score: 30, Reliability: models.ReliabilityLow},
	}
}

// favouriteData gives roughly 1.8 vs 1.1 expected goals, a 6-2-2 H2H record
// and a home favourite in the market
func favouriteData() *models.AggregatedMatchData {
	data := baseData()
	data.HomeStats = &models.TeamSeasonStats{
		Played:          models.SplitInt{Home: 10, Away: 10, Total: 20},
		FailedToScore:   models.SplitInt{Total: 3},
		CleanSheets:     models.SplitInt{Home: 4, Away: 2, Total: 6},
		GoalsForAvg:     models.SplitFloat{Home: 1.8, Away: 1.4, Total: 1.6},
		GoalsAgainstAvg: models.SplitFloat{Home: 1.3, Away: 1.2, Total: 1.25},
	}
	data.AwayStats = &models.TeamSeasonStats{
		Played:          models.SplitInt{Home: 10, Away: 10, Total: 20},
		FailedToScore:   models.SplitInt{Total: 5},
		CleanSheets:     models.SplitInt{Home: 3, Away: 2, Total: 5},
		GoalsForAvg:     models.SplitFloat{Home: 1.5, Away: 1.2, Total: 1.35},
		GoalsAgainstAvg: models.SplitFloat{Home: 1.1, Away: 1.31, Total: 1.2},
	}
	data.HeadToHead = &models.H2HData{Total: 10, HomeWins: 6, Draws: 2, AwayWins: 2, BTTSCount: 5, Over25Count: 6}
	data.Odds = &models.OddsData{
		MatchWinner: models.ThreeWayOdds{Home: 1.80, Draw: 3.60, Away: 4.20},
		Bookmaker:   "Bet365",
	}
	data.DataQuality = models.DataQuality{Score: 75, Reliability: models.ReliabilityHigh}
	return data
}

func assertSumsTo100(t *testing.T, values ...float64) {
	t.Helper()
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	assert.InDelta(t, 100.0, sum, 0.1)
}

func TestPoissonTripleFavoursStrongerAttack(t *testing.T) {
	p := PoissonTriple(1.8, 1.1)
	assert.Greater(t, p[0], p[1])
	assert.Greater(t, p[0], p[2])
	assertSumsTo100(t, p[:]...)
}

func TestDecideOutcome(t *testing.T) {
	tests := []struct {
		name             string
		home, draw, away float64
		expected         models.Outcome
	}{
		{"clear home", 50, 25, 25, models.OutcomeHome},
		{"clear away", 25, 25, 50, models.OutcomeAway},
		{"draw leads", 30, 40, 30, models.OutcomeDraw},
		{"close match with live draw", 36, 30, 34, models.OutcomeDraw},
		{"close match with weak draw", 38, 25, 37, models.OutcomeHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecideOutcome(tt.home, tt.draw, tt.away))
		})
	}
}

func TestOutcomeFavourite(t *testing.T) {
	o := NewOutcome(DefaultWeights())
	p := o.Estimate(favouriteData())

	assert.Equal(t, models.OutcomeHome, p.Predicted)
	assert.Greater(t, p.HomeWin, p.AwayWin)
	assertSumsTo100(t, p.HomeWin, p.Draw, p.AwayWin)
	require.NotEmpty(t, p.Factors)
	assert.Equal(t, "xG", p.Factors[0].Type)
}

func TestOutcomeWithoutDataIsBalanced(t *testing.T) {
	p := NewOutcome(DefaultWeights()).Estimate(baseData())

	assertSumsTo100(t, p.HomeWin, p.Draw, p.AwayWin)
	for _, v := range []float64{p.HomeWin, p.Draw, p.AwayWin} {
		assert.InDelta(t, 33, v, 8)
	}
}

func TestBTTS(t *testing.T) {
	tests := []struct {
		name string
		data *models.AggregatedMatchData
	}{
		{"no data", baseData()},
		{"full data", favouriteData()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBTTS().Estimate(tt.data)
			assertSumsTo100(t, p.Yes, p.No)
			assert.GreaterOrEqual(t, p.Yes, 15.0)
			assert.LessOrEqual(t, p.Yes, 85.0)
			if p.Yes > 50 {
				assert.Equal(t, "Yes", p.Predicted)
			} else {
				assert.Equal(t, "No", p.Predicted)
			}
		})
	}
}

func TestBTTSOddsBlend(t *testing.T) {
	data := baseData()
	without := NewBTTS().Estimate(data)

	data.Odds = &models.OddsData{BTTS: models.YesNoOdds{Yes: 1.25, No: 4.0}}
	with := NewBTTS().Estimate(data)

	assert.Greater(t, with.Yes, without.Yes)
}

func TestOverUnderHighExpectedGoals(t *testing.T) {
	data := baseData()
	data.HomeStats = &models.TeamSeasonStats{
		GoalsForAvg:     models.SplitFloat{Home: 2.0, Total: 2.0},
		GoalsAgainstAvg: models.SplitFloat{Home: 1.1, Total: 1.1},
	}
	data.AwayStats = &models.TeamSeasonStats{
		GoalsForAvg:     models.SplitFloat{Away: 1.3, Total: 1.3},
		GoalsAgainstAvg: models.SplitFloat{Away: 1.6, Total: 1.6},
	}

	p := NewOverUnder(DefaultConfig()).Estimate(data)

	assert.InDelta(t, 3.4, p.ExpectedGoals, 0.1)
	assert.Greater(t, p.Lines["2.5"].Over, 50.0)
	assert.Equal(t, "Over 2.5", p.Recommended)
	for _, line := range models.GoalLines {
		l, ok := p.Lines[line]
		require.True(t, ok, line)
		assertSumsTo100(t, l.Over, l.Under)
	}
}

func TestRecommendFallsBackToExpectedGoals(t *testing.T) {
	o := NewOverUnder(DefaultConfig())
	flat := map[string]models.OverUnderLine{
		"0.5": {Over: 55, Under: 45},
		"1.5": {Over: 52, Under: 48},
		"2.5": {Over: 49, Under: 51},
		"3.5": {Over: 45, Under: 55},
	}

	tests := []struct {
		xg       float64
		expected string
	}{
		{3.0, "Over 2.5"},
		{2.6, "Over 2.5"},
		{2.4, "Under 2.5"},
		{1.9, "Under 2.5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, o.Recommend(flat, tt.xg), "xg=%v", tt.xg)
	}
}

func TestCorrectScore(t *testing.T) {
	p := NewCorrectScore().Estimate(favouriteData())

	require.Len(t, p.TopPredictions, 10)
	assert.Equal(t, p.TopPredictions[0].Score, p.MostLikely)
	for i := 1; i < len(p.TopPredictions); i++ {
		assert.GreaterOrEqual(t, p.TopPredictions[i-1].Probability, p.TopPredictions[i].Probability)
	}
	assert.LessOrEqual(t, p.Confidence, 60)
}

func TestScoreMatrixCoversGrid(t *testing.T) {
	scores := ScoreMatrix(1.4, 1.2)
	assert.Len(t, scores, 36)

	total := 0.0
	for _, s := range scores {
		total += s.Probability
	}
	assert.InDelta(t, 100, total, 2)
}

func TestHTFT(t *testing.T) {
	data := favouriteData()
	outcome := NewOutcome(DefaultWeights()).Estimate(data)

	p := NewHTFT().EstimateWithOutcome(data, &outcome)

	require.Len(t, p.Predictions, 9)
	sum := 0.0
	for _, c := range p.Predictions {
		sum += c.Probability
	}
	assert.InDelta(t, 100, sum, 0.01)
	assert.Equal(t, p.Predictions[0].Combination, p.MostLikely)
	assert.LessOrEqual(t, p.Confidence, 55)

	neutral := NewHTFT().Estimate(baseData())
	assert.Len(t, neutral.Predictions, 9)
}

func TestScoringTendencyFallsBackToSeasonAverage(t *testing.T) {
	stats := &models.TeamSeasonStats{GoalsForAvg: models.SplitFloat{Total: 2.6}}
	assert.InDelta(t, 1.0, scoringTendency(stats, nil), 1e-9)

	recent := []models.RecentMatch{{GoalsScored: 1}, {GoalsScored: 1}, {GoalsScored: 1}}
	assert.InDelta(t, (1-1.3)/1.3, scoringTendency(stats, recent), 1e-9)
}

func TestStats(t *testing.T) {
	for _, data := range []*models.AggregatedMatchData{baseData(), favouriteData()} {
		p := NewStats().Estimate(data)

		assertSumsTo100(t, p.Possession.Home, p.Possession.Away)
		assert.GreaterOrEqual(t, p.Possession.Home, 35.0)
		assert.LessOrEqual(t, p.Possession.Home, 65.0)
		assert.GreaterOrEqual(t, p.TotalShots.Home, 6)
		assert.LessOrEqual(t, p.TotalShots.Home, 20)
		assert.GreaterOrEqual(t, p.TotalShots.Away, 4)
		assert.LessOrEqual(t, p.TotalShots.Away, 18)
		assert.LessOrEqual(t, p.ShotsOnTarget.Home, p.TotalShots.Home)
		assert.GreaterOrEqual(t, p.Corners.Home, 3)
		assert.LessOrEqual(t, p.Corners.Away, 9)
	}

	assert.Equal(t, 45, NewStats().Estimate(baseData()).Confidence)
	assert.Equal(t, 65, NewStats().Estimate(favouriteData()).Confidence)
}
