package backtest

import (
	"fmt"
	"math"

	"github.com/Alias1177/FootballPredictor/models"
)

// Correlation below which expected goals are flagged, over at least
// minCorrelationSample evaluated matches
const (
	lowGoalsCorrelation  = 0.3
	minCorrelationSample = 5
)

// insights summarises a report in plain sentences, strongest signal first
func insights(r *models.BacktestReport) []string {
	var out []string

	switch {
	case r.OutcomeAccuracy > 50:
		out = append(out, fmt.Sprintf("Match outcome predictions are performing well at %.1f%% accuracy", r.OutcomeAccuracy))
	case r.OutcomeAccuracy > 40:
		out = append(out, fmt.Sprintf("Match outcome predictions are moderate at %.1f%% accuracy", r.OutcomeAccuracy))
	default:
		out = append(out, fmt.Sprintf("Match outcome predictions need improvement at %.1f%% accuracy", r.OutcomeAccuracy))
	}

	if high := r.ByConfidence[TierHigh]; high.Total > 0 {
		if high.Accuracy > 60 {
			out = append(out, fmt.Sprintf("High confidence predictions are reliable at %.1f%% accuracy", high.Accuracy))
		} else {
			out = append(out, fmt.Sprintf("High confidence predictions only hit %.1f%%, confidence calibration is off", high.Accuracy))
		}
	}

	switch {
	case r.BTTSAccuracy > 55:
		out = append(out, fmt.Sprintf("BTTS predictions are strong at %.1f%% accuracy", r.BTTSAccuracy))
	case r.BTTSAccuracy < 45:
		out = append(out, fmt.Sprintf("BTTS predictions are weak at %.1f%% accuracy", r.BTTSAccuracy))
	}

	if ou := r.OverUnderAccuracy["2.5"]; ou > 55 {
		out = append(out, fmt.Sprintf("Over/Under 2.5 predictions are performing well at %.1f%% accuracy", ou))
	}

	if r.Goals.MeanAbsoluteError < 1.5 {
		out = append(out, fmt.Sprintf("Expected goals are accurate with a mean error of %.2f goals", r.Goals.MeanAbsoluteError))
	} else {
		out = append(out, fmt.Sprintf("Expected goals are off by %.2f goals on average", r.Goals.MeanAbsoluteError))
	}

	if r.Evaluated >= minCorrelationSample && r.Goals.Correlation < lowGoalsCorrelation {
		out = append(out, fmt.Sprintf("Expected goals barely track actual totals (correlation %.2f), the goals model has high variance",
			r.Goals.Correlation))
	}

	if r.PredictedOutcomes.Home > 60 {
		out = append(out, fmt.Sprintf("Model is over-predicting home wins (%.0f%% predicted vs %.0f%% actual)",
			r.PredictedOutcomes.Home, r.ActualOutcomes.Home))
	}

	if bias := r.PredictedOver25Rate - r.ActualOver25Rate; math.Abs(bias) > 15 {
		direction := "over-estimating"
		if bias < 0 {
			direction = "under-estimating"
		}
		out = append(out, fmt.Sprintf("Model is %s Over 2.5 goals (%.0f%% predicted vs %.0f%% actual)",
			direction, r.PredictedOver25Rate, r.ActualOver25Rate))
	}

	return out
}

// recommendations are the tuning hints of a detailed run
func recommendations(r *models.BacktestReport, breakdown []models.OutcomeBreakdown, goals models.GoalsAnalysis) []string {
	var out []string

	if r.OutcomeAccuracy < 40 {
		out = append(out, "Outcome accuracy is low: review form and position weights")
	}

	var draws models.OutcomeBreakdown
	for _, b := range breakdown {
		if b.Actual == models.OutcomeDraw {
			draws = b
		}
	}
	if draws.Total > 0 && percent(draws.Correct, draws.Total) < 20 {
		out = append(out, "Draw predictions need improvement: consider a higher draw weight for evenly matched teams")
	}

	if r.BTTSAccuracy < 50 {
		out = append(out, "BTTS accuracy is below 50%: review attack and defence factors")
	}

	if goals.AvgError > 1.0 {
		out = append(out, fmt.Sprintf("Expected goals are off by %.2f on average: recalibrate goal rates", goals.AvgError))
	}

	switch {
	case r.PredictedOutcomes.Home > 60:
		out = append(out, fmt.Sprintf("Over-predicting home wins (%.0f%%): reduce home advantage", r.PredictedOutcomes.Home))
	case r.PredictedOutcomes.Away > 60:
		out = append(out, fmt.Sprintf("Over-predicting away wins (%.0f%%): review away form weighting", r.PredictedOutcomes.Away))
	}

	if r.PredictedOutcomes.Draw == 0 && draws.Total > 0 {
		out = append(out, fmt.Sprintf("Model never predicts draws but %d occurred", draws.Total))
	}

	if r.OutcomeAccuracy >= 60 {
		out = append(out, "Strong outcome prediction performance")
	}
	if r.OverUnderAccuracy["2.5"] >= 65 {
		out = append(out, "Excellent Over/Under 2.5 accuracy")
	}

	if len(out) == 0 {
		out = append(out, "No obvious calibration issues in this sample")
	}
	return out
}
