// Package backtest replays the prediction engine over finished matches and
// scores it against the recorded results.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/Alias1177/FootballPredictor/internal/metrics"
	"github.com/Alias1177/FootballPredictor/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Default number of matches replayed per run
const (
	DefaultLimit         = 50
	DefaultDetailedLimit = 10
)

// Predictor generates predictions; the backtest always bypasses its cache
type Predictor interface {
	GetPrediction(ctx context.Context, matchID string, forceRefresh bool) (*models.CompletePrediction, error)
}

// MatchSource lists finished matches, most recent first
type MatchSource interface {
	FinishedMatches(ctx context.Context, from, to time.Time, leagueID, limit int) ([]models.Match, error)
}

// Options selects the matches of a run. Start and End are whole days.
type Options struct {
	Start    time.Time
	End      time.Time
	LeagueID int
	Limit    int
}

// Engine runs backtests sequentially, one prediction at a time
type Engine struct {
	predictor Predictor
	matches   MatchSource
	metrics   *metrics.PredictorMetrics
	logger    zerolog.Logger
}

// New creates a backtest engine. m may be nil.
func New(predictor Predictor, matches MatchSource, m *metrics.PredictorMetrics) *Engine {
	return &Engine{
		predictor: predictor,
		matches:   matches,
		metrics:   m,
		logger:    log.With().Str("component", "backtest").Logger(),
	}
}

// evaluation pairs a finished match with the prediction made for it
type evaluation struct {
	match      models.Match
	prediction *models.CompletePrediction
	result     models.BacktestMatchResult
}

// Run replays the engine and aggregates accuracy, calibration and ROI
func (e *Engine) Run(ctx context.Context, opts Options) (*models.BacktestReport, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	evals, total, err := e.replay(ctx, opts)
	if err != nil {
		return nil, err
	}

	report := buildReport(opts, evals, total)
	for market, roi := range report.ROI {
		e.metrics.UpdateBacktestROI(market, roiDecimal(roi))
	}

	e.logger.Info().
		Int("evaluated", report.Evaluated).
		Int("skipped", report.Skipped).
		Float64("outcome_accuracy", report.OutcomeAccuracy).
		Msg("Backtest completed")

	return report, nil
}

// replay predicts every finished match in range. Matches whose prediction
// fails are skipped; only an empty range or a source failure is an error.
func (e *Engine) replay(ctx context.Context, opts Options) ([]evaluation, int, error) {
	from, to := dayStart(opts.Start), dayEnd(opts.End)

	e.logger.Info().
		Time("from", from).
		Time("to", to).
		Int("league_id", opts.LeagueID).
		Int("limit", opts.Limit).
		Msg("Starting backtest")

	matches, err := e.matches.FinishedMatches(ctx, from, to, opts.LeagueID, opts.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("loading finished matches: %w", err)
	}
	if len(matches) == 0 {
		return nil, 0, models.ErrNoFinishedMatches
	}

	evals := make([]evaluation, 0, len(matches))
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if !m.IsFinished() {
			continue
		}

		p, err := e.predictor.GetPrediction(ctx, m.ID, true)
		if err != nil {
			e.logger.Warn().Err(err).Str("match_id", m.ID).Msg("Failed to evaluate match")
			e.metrics.RecordBacktestMatch("skipped")
			continue
		}

		evals = append(evals, evaluation{match: m, prediction: p, result: evaluate(m, p)})
		e.metrics.RecordBacktestMatch("evaluated")
	}

	if len(evals) == 0 {
		return nil, 0, fmt.Errorf("none of %d matches could be evaluated: %w", len(matches), models.ErrNoFinishedMatches)
	}
	return evals, len(matches), nil
}

// checked over/under lines and their goal thresholds
var evaluatedLines = []struct {
	key   string
	goals float64
}{
	{"1.5", 1.5},
	{"2.5", 2.5},
	{"3.5", 3.5},
}

// evaluate compares one prediction with the final score
func evaluate(m models.Match, p *models.CompletePrediction) models.BacktestMatchResult {
	homeGoals, awayGoals := *m.HomeGoals, *m.AwayGoals
	total := homeGoals + awayGoals
	actual := actualOutcome(homeGoals, awayGoals)
	actualBTTS := homeGoals > 0 && awayGoals > 0
	score := fmt.Sprintf("%d-%d", homeGoals, awayGoals)

	r := models.BacktestMatchResult{
		MatchID:          m.ID,
		HomeTeam:         m.HomeTeam.Name,
		AwayTeam:         m.AwayTeam.Name,
		Kickoff:          m.Kickoff,
		ActualScore:      score,
		ActualOutcome:    actual,
		PredictedOutcome: p.MatchOutcome.Predicted,
		OutcomeCorrect:   p.MatchOutcome.Predicted == actual,
		HomeWin:          p.MatchOutcome.HomeWin,
		Draw:             p.MatchOutcome.Draw,
		AwayWin:          p.MatchOutcome.AwayWin,
		BTTSPredicted:    p.BTTS.Predicted,
		BTTSCorrect:      (p.BTTS.Predicted == "Yes") == actualBTTS,
		OverUnderCorrect: make(map[string]bool, len(evaluatedLines)),
		PredictedScore:   p.CorrectScore.MostLikely,
		ExactScore:       p.CorrectScore.MostLikely == score,
		ExpectedGoals:    p.OverUnder.ExpectedGoals,
		ActualGoals:      total,
		Confidence:       p.Confidence,
		ConfidenceScore:  p.ConfidenceScore,
		OutcomeTier:      tierFor(p.MatchOutcome.Confidence),
	}

	for _, line := range evaluatedLines {
		predictedOver := p.OverUnder.Lines[line.key].Over > 50
		r.OverUnderCorrect[line.key] = predictedOver == (float64(total) > line.goals)
	}

	return r
}

func actualOutcome(home, away int) models.Outcome {
	switch {
	case home > away:
		return models.OutcomeHome
	case home < away:
		return models.OutcomeAway
	default:
		return models.OutcomeDraw
	}
}

// Outcome confidence tiers
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

func tierFor(confidence int) string {
	switch {
	case confidence >= 70:
		return TierHigh
	case confidence >= 50:
		return TierMedium
	default:
		return TierLow
	}
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return dayStart(t).Add(24*time.Hour - time.Millisecond)
}
