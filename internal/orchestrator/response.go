package orchestrator

import (
	"time"

	"github.com/Alias1177/FootballPredictor/models"
)

// PredictionResponse is the API shape of a prediction
type PredictionResponse struct {
	MatchID         string                    `json:"matchId"`
	GeneratedAt     string                    `json:"generatedAt"`
	ExpiresAt       string                    `json:"expiresAt"`
	Source          models.PredictionSource   `json:"source"`
	Confidence      models.ConfidenceLevel    `json:"confidence"`
	ConfidenceScore int                       `json:"confidenceScore"`
	MatchOutcome    OutcomeResponse           `json:"matchOutcome"`
	BTTS            BTTSResponse              `json:"btts"`
	OverUnder       OverUnderResponse         `json:"overUnder"`
	CorrectScore    CorrectScoreResponse      `json:"correctScore"`
	HTFT            HTFTResponse              `json:"htft"`
	Stats           StatsResponse             `json:"stats"`
	AIAnalysis      string                    `json:"aiAnalysis"`
	Factors         []models.PredictionFactor `json:"factors"`
	DataQuality     models.DataQuality        `json:"dataQuality"`
}

type OutcomeResponse struct {
	HomeWin   float64        `json:"homeWin"`
	Draw      float64        `json:"draw"`
	AwayWin   float64        `json:"awayWin"`
	Predicted models.Outcome `json:"predicted"`
}

type BTTSResponse struct {
	Yes       float64 `json:"yes"`
	No        float64 `json:"no"`
	Predicted string  `json:"predicted"`
}

type OverUnderResponse struct {
	Lines         map[string]models.OverUnderLine `json:"lines"`
	ExpectedGoals float64                         `json:"expectedGoals"`
	Recommended   string                          `json:"recommended"`
}

type CorrectScoreResponse struct {
	TopPredictions []models.ScoreProbability `json:"topPredictions"`
	MostLikely     string                    `json:"mostLikely"`
}

type HTFTResponse struct {
	Predictions []models.HTFTProbability `json:"predictions"`
	MostLikely  string                   `json:"mostLikely"`
}

type StatsResponse struct {
	ExpectedGoals models.HomeAway    `json:"expectedGoals"`
	Possession    models.HomeAway    `json:"possession"`
	TotalShots    models.HomeAwayInt `json:"totalShots"`
	ShotsOnTarget models.HomeAwayInt `json:"shotsOnTarget"`
	Corners       models.HomeAwayInt `json:"corners"`
}

// ToResponse strips per-market confidences and factors from a prediction
func ToResponse(p *models.CompletePrediction) PredictionResponse {
	return PredictionResponse{
		MatchID:         p.MatchID,
		GeneratedAt:     p.GeneratedAt.UTC().Format(time.RFC3339),
		ExpiresAt:       p.ExpiresAt.UTC().Format(time.RFC3339),
		Source:          p.Source,
		Confidence:      p.Confidence,
		ConfidenceScore: p.ConfidenceScore,
		MatchOutcome: OutcomeResponse{
			HomeWin:   p.MatchOutcome.HomeWin,
			Draw:      p.MatchOutcome.Draw,
			AwayWin:   p.MatchOutcome.AwayWin,
			Predicted: p.MatchOutcome.Predicted,
		},
		BTTS: BTTSResponse{
			Yes:       p.BTTS.Yes,
			No:        p.BTTS.No,
			Predicted: p.BTTS.Predicted,
		},
		OverUnder: OverUnderResponse{
			Lines:         p.OverUnder.Lines,
			ExpectedGoals: p.OverUnder.ExpectedGoals,
			Recommended:   p.OverUnder.Recommended,
		},
		CorrectScore: CorrectScoreResponse{
			TopPredictions: p.CorrectScore.TopPredictions,
			MostLikely:     p.CorrectScore.MostLikely,
		},
		HTFT: HTFTResponse{
			Predictions: p.HTFT.Predictions,
			MostLikely:  p.HTFT.MostLikely,
		},
		Stats: StatsResponse{
			ExpectedGoals: p.Stats.ExpectedGoals,
			Possession:    p.Stats.Possession,
			TotalShots:    p.Stats.TotalShots,
			ShotsOnTarget: p.Stats.ShotsOnTarget,
			Corners:       p.Stats.Corners,
		},
		AIAnalysis:  p.AIAnalysis,
		Factors:     p.Factors,
		DataQuality: p.DataQuality,
	}
}
