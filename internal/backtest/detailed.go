package backtest

import (
	"context"
	"fmt"
	"math"

	"github.com/Alias1177/FootballPredictor/models"
)

const (
	detailedTopScores  = 3
	detailedKeyFactors = 5
)

// RunDetailed replays a small sample and explains each prediction
func (e *Engine) RunDetailed(ctx context.Context, opts Options) (*models.DetailedBacktestReport, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultDetailedLimit
	}

	evals, total, err := e.replay(ctx, opts)
	if err != nil {
		return nil, err
	}

	report := buildReport(opts, evals, total)
	report.Matches = nil

	matches := make([]models.DetailedMatchResult, 0, len(evals))
	for _, ev := range evals {
		matches = append(matches, detail(ev))
	}

	breakdown := outcomeBreakdown(evals)
	goals := goalsAnalysis(evals, matches)

	e.logger.Info().
		Int("evaluated", report.Evaluated).
		Float64("score_in_top3", goals.ScoreInTop3).
		Msg("Detailed backtest completed")

	return &models.DetailedBacktestReport{
		Report:           *report,
		Matches:          matches,
		OutcomeBreakdown: breakdown,
		Goals:            goals,
		Recommendations:  recommendations(report, breakdown, goals),
	}, nil
}

func detail(ev evaluation) models.DetailedMatchResult {
	r, p := ev.result, ev.prediction
	d := models.DetailedMatchResult{BacktestMatchResult: r}

	for i, s := range p.CorrectScore.TopPredictions {
		if i >= 10 {
			break
		}
		if s.Score == r.ActualScore {
			d.InTop10 = true
			d.InTop3 = i < 3
			break
		}
	}

	d.TopScores = p.CorrectScore.TopPredictions[:min(detailedTopScores, len(p.CorrectScore.TopPredictions))]
	d.KeyFactors = p.Factors[:min(detailedKeyFactors, len(p.Factors))]

	d.Notes = append(d.Notes, mark(r.OutcomeCorrect)+fmt.Sprintf(" Outcome: predicted %s, actual %s", r.PredictedOutcome, r.ActualOutcome))
	d.Notes = append(d.Notes, mark(r.BTTSCorrect)+fmt.Sprintf(" BTTS: predicted %s, actual %s", r.BTTSPredicted, yesNo(bothScored(ev.match))))
	d.Notes = append(d.Notes, mark(r.OverUnderCorrect["2.5"])+fmt.Sprintf(" Over/Under 2.5: %d goals scored", r.ActualGoals))

	switch {
	case r.ExactScore:
		d.Notes = append(d.Notes, fmt.Sprintf("✓ Exact score %s predicted", r.ActualScore))
	case d.InTop3:
		d.Notes = append(d.Notes, fmt.Sprintf("○ Actual score %s was in the top 3", r.ActualScore))
	case d.InTop10:
		d.Notes = append(d.Notes, fmt.Sprintf("○ Actual score %s was in the top 10", r.ActualScore))
	default:
		d.Notes = append(d.Notes, fmt.Sprintf("✗ Actual score %s not in the top 10", r.ActualScore))
	}

	if diff := math.Abs(r.ExpectedGoals - float64(r.ActualGoals)); diff > 1.5 {
		d.Notes = append(d.Notes, fmt.Sprintf("✗ Expected %.1f goals, %d scored", r.ExpectedGoals, r.ActualGoals))
	}

	return d
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func outcomeBreakdown(evals []evaluation) []models.OutcomeBreakdown {
	out := []models.OutcomeBreakdown{
		{Actual: models.OutcomeHome},
		{Actual: models.OutcomeDraw},
		{Actual: models.OutcomeAway},
	}
	for _, ev := range evals {
		for i := range out {
			if out[i].Actual != ev.result.ActualOutcome {
				continue
			}
			out[i].Total++
			if ev.result.OutcomeCorrect {
				out[i].Correct++
			}
		}
	}
	return out
}

func goalsAnalysis(evals []evaluation, matches []models.DetailedMatchResult) models.GoalsAnalysis {
	n := len(evals)
	if n == 0 {
		return models.GoalsAnalysis{}
	}

	var expected, actual float64
	var top3, top10, btts, over int
	for i, ev := range evals {
		expected += ev.result.ExpectedGoals
		actual += float64(ev.result.ActualGoals)
		if matches[i].InTop3 {
			top3++
		}
		if matches[i].InTop10 {
			top10++
		}
		if bothScored(ev.match) {
			btts++
		}
		if ev.result.ActualGoals > 2 {
			over++
		}
	}

	avgExpected, avgActual := expected/float64(n), actual/float64(n)
	return models.GoalsAnalysis{
		AvgExpected:  round(avgExpected, 2),
		AvgActual:    round(avgActual, 2),
		AvgError:     round(math.Abs(avgExpected-avgActual), 2),
		ScoreInTop3:  percent(top3, n),
		ScoreInTop10: percent(top10, n),
		ActualBTTS:   percent(btts, n),
		ActualOver25: percent(over, n),
	}
}
