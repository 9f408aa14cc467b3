package llm

import "github.com/Alias1177/FootballPredictor/models"

// Result is the outcome of one LLM estimation: Ok, Unavailable or Failed
type Result interface {
	resultKind() string
}

// Prediction holds the three markets the LLM path serves
type Prediction struct {
	MatchOutcome models.MatchOutcomePrediction
	BTTS         models.BTTSPrediction
	OverUnder    models.OverUnderPrediction
	Analysis     string
}

// Ok carries a parsed and normalized prediction
type Ok struct {
	Prediction Prediction
}

// Unavailable means the estimator is disabled or has no credentials
type Unavailable struct{}

// Failed wraps a transport, timeout or parse error
type Failed struct {
	Err error
}

func (Ok) resultKind() string          { return "ok" }
func (Unavailable) resultKind() string { return "unavailable" }
func (Failed) resultKind() string      { return "failed" }

// Kind returns a short label of the result, used in logs and metrics
func Kind(r Result) string {
	if r == nil {
		return "unavailable"
	}
	return r.resultKind()
}
