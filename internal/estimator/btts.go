package estimator

import (
	"fmt"
	"math"

	"github.com/Alias1177/FootballPredictor/internal/probability"
	"github.com/Alias1177/FootballPredictor/models"
)

const defaultScoringRate = 65.0

// BTTS estimates whether both teams score
type BTTS struct{}

// NewBTTS creates the both-teams-to-score estimator
func NewBTTS() *BTTS { return &BTTS{} }

// Name implements Estimator
func (b *BTTS) Name() string { return "btts" }

// Estimate implements Estimator
func (b *BTTS) Estimate(data *models.AggregatedMatchData) models.BTTSPrediction {
	var factors []models.PredictionFactor

	homeScores := scoringProbability(data.HomeStats, data.AwayStats, data.HomeRecent, true)
	awayScores := scoringProbability(data.AwayStats, data.HomeStats, data.AwayRecent, false)

	factors = append(factors,
		newFactor("scoring", fmt.Sprintf("%s to score: %.0f%%", data.Match.HomeTeam.Name, homeScores),
			thresholdImpact(homeScores, 70, 50), "home"),
		newFactor("scoring", fmt.Sprintf("%s to score: %.0f%%", data.Match.AwayTeam.Name, awayScores),
			thresholdImpact(awayScores, 70, 50), "away"),
	)

	yes := homeScores * awayScores / 100

	if h := data.HeadToHead; h != nil && h.Total > 0 {
		rate := float64(h.BTTSCount) / float64(h.Total) * 100
		weight := 0.20
		if h.Total >= 5 {
			weight = 0.30
		}
		yes = yes*(1-weight) + rate*weight
		factors = append(factors, newFactor("h2h_btts",
			fmt.Sprintf("H2H BTTS: %d/%d matches (%.0f%%)", h.BTTSCount, h.Total, rate),
			thresholdImpact(rate, 55, 45), ""))
	}

	if data.Odds.HasBTTS() {
		n := probability.Normalize(
			probability.OddsToProbability(data.Odds.BTTS.Yes),
			probability.OddsToProbability(data.Odds.BTTS.No),
		)
		yes = yes*0.8 + n[0]*0.2
		factors = append(factors, newFactor("odds",
			fmt.Sprintf("BTTS odds: Yes %.2f / No %.2f", data.Odds.BTTS.Yes, data.Odds.BTTS.No),
			models.ImpactNeutral, ""))
	}

	yesPct, noPct := probability.Complement(probability.Clamp(yes, 15, 85))
	predicted := "No"
	if yesPct > 50 {
		predicted = "Yes"
	}

	return models.BTTSPrediction{
		Yes:        yesPct,
		No:         noPct,
		Predicted:  predicted,
		Confidence: probability.Confidence(math.Abs(yesPct-50)/50, data.DataQuality.Score),
		Factors:    factors,
	}
}

// scoringProbability is the chance in percent that a team scores at least once
func scoringProbability(team, opp *models.TeamSeasonStats, recent []models.RecentMatch, isHome bool) float64 {
	p := defaultScoringRate
	if team != nil && team.Played.Total > 0 {
		p = float64(team.Played.Total-team.FailedToScore.Total) / float64(team.Played.Total) * 100
	}

	if opp != nil {
		played, cleanSheets := opp.Played.Side(!isHome), opp.CleanSheets.Side(!isHome)
		if played == 0 {
			played, cleanSheets = opp.Played.Total, opp.CleanSheets.Total
		}
		if played > 0 {
			cleanSheetRate := float64(cleanSheets) / float64(played) * 100
			p *= 1 - cleanSheetRate/200
		}
	}

	if len(recent) > 0 {
		last := recent
		if len(last) > 5 {
			last = last[:5]
		}
		scored := 0
		for _, m := range last {
			if m.GoalsScored > 0 {
				scored++
			}
		}
		p = p*0.7 + float64(scored)/float64(len(last))*100*0.3
	}

	return probability.Clamp(p, 25, 90)
}
