package orchestrator

import (
	"testing"
	"time"

	"github.com/Alias1177/FootballPredictor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func predictionWith(conf, quality int) *models.CompletePrediction {
	return &models.CompletePrediction{
		MatchOutcome: models.MatchOutcomePrediction{HomeWin: 40, Draw: 30, AwayWin: 30, Confidence: conf},
		BTTS:         models.BTTSPrediction{Yes: 50, No: 50, Confidence: conf},
		OverUnder: models.OverUnderPrediction{
			Lines:         map[string]models.OverUnderLine{"2.5": {Over: 50, Under: 50}},
			ExpectedGoals: 2.3,
			Confidence:    conf,
		},
		CorrectScore: models.CorrectScorePrediction{Confidence: conf},
		HTFT:         models.HTFTPrediction{Confidence: conf},
		Stats:        models.StatsPrediction{Confidence: conf},
		DataQuality:  models.DataQuality{Score: quality},
	}
}

func TestOverallConfidence(t *testing.T) {
	tests := []struct {
		name     string
		p        func() *models.CompletePrediction
		expected int
		level    models.ConfidenceLevel
	}{
		{"floor", func() *models.CompletePrediction { return predictionWith(0, 0) }, 20, models.ConfidenceLow},
		{"plain", func() *models.CompletePrediction { return predictionWith(60, 100) }, 60, models.ConfidenceMedium},
		{"quality scales", func() *models.CompletePrediction { return predictionWith(60, 50) }, 30, models.ConfidenceLow},
		{"match winner odds", func() *models.CompletePrediction {
			p := predictionWith(60, 100)
			p.Odds = &models.OddsData{MatchWinner: models.ThreeWayOdds{Home: 2.1, Draw: 3.3, Away: 3.5}}
			return p
		}, 75, models.ConfidenceHigh},
		{"totals odds only", func() *models.CompletePrediction {
			p := predictionWith(60, 100)
			p.Odds = &models.OddsData{OverUnder: models.TotalsOdds{Over25: 1.9, Under25: 1.9}}
			return p
		}, 65, models.ConfidenceMedium},
		{"agreement", func() *models.CompletePrediction {
			p := predictionWith(60, 100)
			p.MatchOutcome.HomeWin = 55
			p.OverUnder.ExpectedGoals = 2.9
			p.BTTS.Yes, p.BTTS.No = 65, 35
			p.OverUnder.Lines["2.5"] = models.OverUnderLine{Over: 58, Under: 42}
			return p
		}, 65, models.ConfidenceMedium},
		{"ceiling", func() *models.CompletePrediction {
			p := predictionWith(100, 100)
			p.Odds = &models.OddsData{MatchWinner: models.ThreeWayOdds{Home: 2.1, Draw: 3.3, Away: 3.5}}
			return p
		}, 95, models.ConfidenceHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, level := OverallConfidence(tt.p(), DefaultConfidenceWeights())
			assert.Equal(t, tt.expected, score)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, models.ConfidenceHigh, LevelFor(70))
	assert.Equal(t, models.ConfidenceMedium, LevelFor(69))
	assert.Equal(t, models.ConfidenceMedium, LevelFor(50))
	assert.Equal(t, models.ConfidenceLow, LevelFor(49))
}

func TestCollectFactors(t *testing.T) {
	group := func(kind string) []models.PredictionFactor {
		return []models.PredictionFactor{{Type: kind + "-1"}, {Type: kind + "-2"}, {Type: kind + "-3"}}
	}

	factors := CollectFactors(group("a"), nil, group("b"), group("c"), group("d"), group("e"), group("f"))
	require.Len(t, factors, 10)
	assert.Equal(t, "a-1", factors[0].Type)
	assert.Equal(t, "a-2", factors[1].Type)
	assert.Equal(t, "b-1", factors[2].Type)
	assert.Equal(t, "e-2", factors[9].Type)
}

func TestDescribeForm(t *testing.T) {
	tests := []struct {
		results  string
		expected string
	}{
		{"", "unknown"},
		{"WWWWL", "excellent"},
		{"WWWLL", "good"},
		{"WWDDL", "consistent"},
		{"LLLLW", "poor"},
		{"LLLDW", "struggling"},
		{"DDDLW", "draw-prone"},
		{"WDLLD", "mixed"},
		{"LLLLLWWWWW", "poor"},
	}

	for _, tt := range tests {
		t.Run(tt.results, func(t *testing.T) {
			assert.Equal(t, tt.expected, DescribeForm(recent(tt.results, 1, 0)))
		})
	}
}

func TestToResponse(t *testing.T) {
	p := predictionWith(60, 80)
	p.MatchID = "m1"
	p.Source = models.SourceLLM
	p.GeneratedAt = time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)
	p.ExpiresAt = p.GeneratedAt.Add(15 * time.Minute)
	p.CorrectScore.MostLikely = "1-0"

	r := ToResponse(p)
	assert.Equal(t, "m1", r.MatchID)
	assert.Equal(t, "2024-05-04T12:00:00Z", r.GeneratedAt)
	assert.Equal(t, "2024-05-04T12:15:00Z", r.ExpiresAt)
	assert.Equal(t, models.SourceLLM, r.Source)
	assert.Equal(t, "1-0", r.CorrectScore.MostLikely)
	assert.Equal(t, 50.0, r.OverUnder.Lines["2.5"].Over)
	assert.Equal(t, 80, r.DataQuality.Score)
}
