package models

import "time"

// TierAccuracy is the hit rate within one confidence tier
type TierAccuracy struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// MarketROI is a flat-stake betting simulation for one market
type MarketROI struct {
	Bets     int     `json:"bets"`
	Wins     int     `json:"wins"`
	Staked   float64 `json:"staked"`
	Returned float64 `json:"returned"`
	Profit   float64 `json:"profit"`
	ROI      float64 `json:"roi"`
}

// GoalsAccuracy compares expected goals with actual totals
type GoalsAccuracy struct {
	MeanAbsoluteError float64 `json:"meanAbsoluteError"`
	Correlation       float64 `json:"correlation"`
	AvgPredicted      float64 `json:"avgPredicted"`
	AvgActual         float64 `json:"avgActual"`
}

// OutcomeDistribution is the share of home/draw/away results in percent
type OutcomeDistribution struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// BacktestMatchResult is the predicted-vs-actual record of one match
type BacktestMatchResult struct {
	MatchID          string          `json:"matchId"`
	HomeTeam         string          `json:"homeTeam"`
	AwayTeam         string          `json:"awayTeam"`
	Kickoff          time.Time       `json:"kickoff"`
	ActualScore      string          `json:"actualScore"`
	ActualOutcome    Outcome         `json:"actualOutcome"`
	PredictedOutcome Outcome         `json:"predictedOutcome"`
	OutcomeCorrect   bool            `json:"outcomeCorrect"`
	HomeWin          float64         `json:"homeWin"`
	Draw             float64         `json:"draw"`
	AwayWin          float64         `json:"awayWin"`
	BTTSPredicted    string          `json:"bttsPredicted"`
	BTTSCorrect      bool            `json:"bttsCorrect"`
	OverUnderCorrect map[string]bool `json:"overUnderCorrect"`
	PredictedScore   string          `json:"predictedScore"`
	ExactScore       bool            `json:"exactScore"`
	ExpectedGoals    float64         `json:"expectedGoals"`
	ActualGoals      int             `json:"actualGoals"`
	Confidence       ConfidenceLevel `json:"confidence"`
	ConfidenceScore  int             `json:"confidenceScore"`
	OutcomeTier      string          `json:"outcomeTier"`
}

// BacktestReport aggregates accuracy, calibration and ROI over a run
type BacktestReport struct {
	Start               time.Time               `json:"start"`
	End                 time.Time               `json:"end"`
	LeagueID            int                     `json:"leagueId,omitempty"`
	TotalMatches        int                     `json:"totalMatches"`
	Evaluated           int                     `json:"evaluated"`
	Skipped             int                     `json:"skipped"`
	OutcomeAccuracy     float64                 `json:"outcomeAccuracy"`
	ByConfidence        map[string]TierAccuracy `json:"byConfidence"`
	BTTSAccuracy        float64                 `json:"bttsAccuracy"`
	OverUnderAccuracy   map[string]float64      `json:"overUnderAccuracy"`
	ExactScoreRate      float64                 `json:"exactScoreRate"`
	Goals               GoalsAccuracy           `json:"goals"`
	ROI                 map[string]MarketROI    `json:"roi"`
	PredictedOutcomes   OutcomeDistribution     `json:"predictedOutcomes"`
	ActualOutcomes      OutcomeDistribution     `json:"actualOutcomes"`
	PredictedOver25Rate float64                 `json:"predictedOver25Rate"`
	ActualOver25Rate    float64                 `json:"actualOver25Rate"`
	Insights            []string                `json:"insights"`
	Matches             []BacktestMatchResult   `json:"matches"`
}

// DetailedMatchResult extends a match record with diagnostics
type DetailedMatchResult struct {
	BacktestMatchResult
	InTop3     bool               `json:"inTop3"`
	InTop10    bool               `json:"inTop10"`
	TopScores  []ScoreProbability `json:"topScores"`
	KeyFactors []PredictionFactor `json:"keyFactors"`
	Notes      []string           `json:"notes"`
}

// OutcomeBreakdown is prediction accuracy grouped by the actual result
type OutcomeBreakdown struct {
	Actual  Outcome `json:"actual"`
	Total   int     `json:"total"`
	Correct int     `json:"correct"`
}

// GoalsAnalysis summarises scoring over a detailed run
type GoalsAnalysis struct {
	AvgExpected  float64 `json:"avgExpected"`
	AvgActual    float64 `json:"avgActual"`
	AvgError     float64 `json:"avgError"`
	ScoreInTop3  float64 `json:"scoreInTop3"`
	ScoreInTop10 float64 `json:"scoreInTop10"`
	ActualBTTS   float64 `json:"actualBtts"`
	ActualOver25 float64 `json:"actualOver25"`
}

// DetailedBacktestReport is the diagnostic variant of a backtest
type DetailedBacktestReport struct {
	Report           BacktestReport        `json:"report"`
	Matches          []DetailedMatchResult `json:"matches"`
	OutcomeBreakdown []OutcomeBreakdown    `json:"outcomeBreakdown"`
	Goals            GoalsAnalysis         `json:"goals"`
	Recommendations  []string              `json:"recommendations"`
}
