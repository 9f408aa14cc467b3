package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Alias1177/FootballPredictor/internal/estimator"
	"github.com/Alias1177/FootballPredictor/internal/probability"
	"github.com/Alias1177/FootballPredictor/models"
)

type rawMarket struct {
	HomeWin    *float64 `json:"homeWin"`
	Draw       *float64 `json:"draw"`
	AwayWin    *float64 `json:"awayWin"`
	Yes        *float64 `json:"yes"`
	No         *float64 `json:"no"`
	Over25     *float64 `json:"over25"`
	Under25    *float64 `json:"under25"`
	Predicted  string   `json:"predicted"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

type rawResponse struct {
	MatchOutcome rawMarket `json:"matchOutcome"`
	BTTS         rawMarket `json:"btts"`
	OverUnder    rawMarket `json:"overUnder"`
	Analysis     string    `json:"analysis"`
}

// stripFences removes a surrounding markdown code block
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return probability.Clamp(*v, 0, 100)
}

func validateOutcome(s string) models.Outcome {
	switch o := models.Outcome(strings.TrimSpace(s)); o {
	case models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway:
		return o
	}
	return models.OutcomeHome
}

// ParseResponse turns a provider answer into normalized market predictions
func ParseResponse(text string) (Prediction, error) {
	var raw rawResponse
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return Prediction{}, fmt.Errorf("parsing LLM response: %w", err)
	}

	triple := probability.NormalizeRounded(
		valueOr(raw.MatchOutcome.HomeWin, 33),
		valueOr(raw.MatchOutcome.Draw, 33),
		valueOr(raw.MatchOutcome.AwayWin, 33),
	)
	outcome := models.MatchOutcomePrediction{
		HomeWin:    triple[0],
		Draw:       triple[1],
		AwayWin:    triple[2],
		Predicted:  validateOutcome(raw.MatchOutcome.Predicted),
		Confidence: int(valueOr(raw.MatchOutcome.Confidence, 50)),
		Factors:    reasoningFactors(raw.MatchOutcome.Reasoning),
	}

	yes, no := probability.Complement(valueOr(raw.BTTS.Yes, 50))
	btts := models.BTTSPrediction{
		Yes:        yes,
		No:         no,
		Predicted:  "No",
		Confidence: int(valueOr(raw.BTTS.Confidence, 50)),
		Factors:    reasoningFactors(raw.BTTS.Reasoning),
	}
	if yes > 50 {
		btts.Predicted = "Yes"
	}

	overUnder := overUnderFromLine(valueOr(raw.OverUnder.Over25, 50))
	overUnder.Confidence = int(valueOr(raw.OverUnder.Confidence, 50))
	overUnder.Factors = reasoningFactors(raw.OverUnder.Reasoning)

	return Prediction{
		MatchOutcome: outcome,
		BTTS:         btts,
		OverUnder:    overUnder,
		Analysis:     strings.TrimSpace(raw.Analysis),
	}, nil
}

// overUnderFromLine derives every goal line from the total-goals rate implied
// by the 2.5 probability, keeping the 2.5 line itself as answered
func overUnderFromLine(over25 float64) models.OverUnderPrediction {
	lambda := probability.RateForOverProbability(over25, 2.5)

	over := make(map[string]float64, len(models.GoalLines))
	for _, line := range models.GoalLines {
		over[line] = estimator.PoissonOver(lambda, line)
	}
	over["2.5"] = over25

	lines := estimator.BuildLines(over)

	recommended := "Under 2.5"
	if lines["2.5"].Over > 50 {
		recommended = "Over 2.5"
	}

	return models.OverUnderPrediction{
		Lines:         lines,
		ExpectedGoals: probability.Round(lambda, 2),
		Recommended:   recommended,
	}
}

func reasoningFactors(reasoning string) []models.PredictionFactor {
	reasoning = strings.TrimSpace(reasoning)
	if reasoning == "" {
		return nil
	}
	return []models.PredictionFactor{{
		Type:        "ai_analysis",
		Description: "AI: " + reasoning,
		Impact:      models.ImpactNeutral,
	}}
}
