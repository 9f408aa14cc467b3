package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Alias1177/FootballPredictor/models"
)

// ModelVersion tags every stored prediction with the engine that produced it
const ModelVersion = "hybrid-v1"

// PredictionRecord is the flattened, stored form of a prediction
type PredictionRecord struct {
	ID               string
	MatchID          string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	Source           models.PredictionSource
	AIModel          string
	HomeWin          float64
	Draw             float64
	AwayWin          float64
	PredictedOutcome models.Outcome
	BTTSYes          float64
	BTTSNo           float64
	Over25           float64
	Under25          float64
	ExpectedGoals    float64
	RecommendedTotal string
	MostLikelyScore  string
	Confidence       models.ConfidenceLevel
	ConfidenceScore  int
	DataQuality      int
	Reasoning        string
	Factors          []models.PredictionFactor
}

// SavePrediction stores a completed prediction
func (db *DB) SavePrediction(ctx context.Context, p *models.CompletePrediction) error {
	factors, err := json.Marshal(p.Factors)
	if err != nil {
		return fmt.Errorf("marshaling factors: %w", err)
	}
	line := p.OverUnder.Lines["2.5"]

	_, err = db.exec(ctx, `
		INSERT INTO predictions (
			id, match_id, created_at, expires_at, source, ai_model,
			home_win, draw, away_win, predicted_outcome,
			btts_yes, btts_no, over25, under25, expected_goals, recommended_total,
			most_likely_score, confidence, confidence_score, data_quality, reasoning, factors
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`,
		p.ID, p.MatchID, p.GeneratedAt.UTC(), p.ExpiresAt.UTC(), string(p.Source), ModelVersion,
		p.MatchOutcome.HomeWin, p.MatchOutcome.Draw, p.MatchOutcome.AwayWin, string(p.MatchOutcome.Predicted),
		p.BTTS.Yes, p.BTTS.No, line.Over, line.Under, p.OverUnder.ExpectedGoals, p.OverUnder.Recommended,
		p.CorrectScore.MostLikely, string(p.Confidence), p.ConfidenceScore, p.DataQuality.Score, p.AIAnalysis, string(factors))

	if err != nil {
		return fmt.Errorf("saving prediction %s: %w", p.ID, err)
	}
	return nil
}

// LatestPrediction returns the newest stored prediction of a match, or nil
func (db *DB) LatestPrediction(ctx context.Context, matchID string) (*PredictionRecord, error) {
	var r PredictionRecord
	var source, outcome, confidence, factors string

	err := db.queryRow(ctx, `
		SELECT
			id, match_id, created_at, expires_at, source, ai_model,
			home_win, draw, away_win, predicted_outcome,
			btts_yes, btts_no, over25, under25, expected_goals, recommended_total,
			most_likely_score, confidence, confidence_score, data_quality, reasoning, factors
		FROM predictions
		WHERE match_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, matchID).Scan(
		&r.ID, &r.MatchID, &r.CreatedAt, &r.ExpiresAt, &source, &r.AIModel,
		&r.HomeWin, &r.Draw, &r.AwayWin, &outcome,
		&r.BTTSYes, &r.BTTSNo, &r.Over25, &r.Under25, &r.ExpectedGoals, &r.RecommendedTotal,
		&r.MostLikelyScore, &confidence, &r.ConfidenceScore, &r.DataQuality, &r.Reasoning, &factors,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No prediction stored
		}
		return nil, err
	}

	r.Source = models.PredictionSource(source)
	r.PredictedOutcome = models.Outcome(outcome)
	r.Confidence = models.ConfidenceLevel(confidence)
	r.CreatedAt = r.CreatedAt.UTC()
	r.ExpiresAt = r.ExpiresAt.UTC()
	if err := json.Unmarshal([]byte(factors), &r.Factors); err != nil {
		return nil, fmt.Errorf("decoding factors: %w", err)
	}

	return &r, nil
}
