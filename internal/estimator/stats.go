package estimator

import (
	"fmt"
	"math"

	"github.com/Alias1177/FootballPredictor/internal/probability"
	"github.com/Alias1177/FootballPredictor/models"
)

// Baselines of an average top-flight match
const (
	homeGoalBaseline = 1.4
	awayGoalBaseline = 1.2
	homeShotsBase    = 12.0
	awayShotsBase    = 11.0
	homeCornersBase  = 5.5
	awayCornersBase  = 4.5
	onTargetShare    = 0.33

	goodDataQuality = 60
)

// Stats estimates descriptive match statistics
type Stats struct{}

// NewStats creates the match statistics estimator
func NewStats() *Stats { return &Stats{} }

// Name implements Estimator
func (s *Stats) Name() string { return "stats" }

// Estimate implements Estimator
func (s *Stats) Estimate(data *models.AggregatedMatchData) models.StatsPrediction {
	homeXG, awayXG := expectedGoals(data)

	homeStanding, awayStanding := probability.NeutralStrength, probability.NeutralStrength
	if st := data.Standings; st != nil {
		homeStanding = probability.PositionStrength(st.HomePosition, st.TotalTeams)
		awayStanding = probability.PositionStrength(st.AwayPosition, st.TotalTeams)
	}
	formDiff := probability.FormStrength(data.HomeRecent) - probability.FormStrength(data.AwayRecent)

	homePossession := probability.Clamp(52+(homeStanding-awayStanding)/100*10+formDiff/100*5, 35, 65)
	homePossession, awayPossession := probability.Complement(homePossession)

	homeAttack := goalAverage(data.HomeStats, true, true, homeGoalBaseline)
	awayAttack := goalAverage(data.AwayStats, false, true, awayGoalBaseline)
	homeDefense := goalAverage(data.HomeStats, true, false, awayGoalBaseline)
	awayDefense := goalAverage(data.AwayStats, false, false, homeGoalBaseline)

	homeShots := homeShotsBase * (homeAttack / homeGoalBaseline) * (1 + (awayDefense-homeGoalBaseline)*0.2)
	awayShots := awayShotsBase * (awayAttack / awayGoalBaseline) * (1 + (homeDefense-awayGoalBaseline)*0.2)
	hs := boundedInt(homeShots, 6, 20)
	as := boundedInt(awayShots, 4, 18)

	homeCorners := (homeCornersBase + (homeStanding-50)/50*2) * (1 + (homeAttack-homeGoalBaseline)*0.15)
	awayCorners := (awayCornersBase + (awayStanding-50)/50*1.5) * (1 + (awayAttack-awayGoalBaseline)*0.15)

	confidence := 45
	if data.DataQuality.Score >= goodDataQuality {
		confidence = 65
	}

	return models.StatsPrediction{
		ExpectedGoals: models.HomeAway{Home: homeXG, Away: awayXG},
		Possession:    models.HomeAway{Home: homePossession, Away: awayPossession},
		TotalShots:    models.HomeAwayInt{Home: hs, Away: as},
		ShotsOnTarget: models.HomeAwayInt{
			Home: int(math.Round(float64(hs) * onTargetShare)),
			Away: int(math.Round(float64(as) * onTargetShare)),
		},
		Corners: models.HomeAwayInt{
			Home: boundedInt(homeCorners, 3, 10),
			Away: boundedInt(awayCorners, 2, 9),
		},
		Confidence: confidence,
		Factors: []models.PredictionFactor{newFactor("data_quality",
			fmt.Sprintf("Data quality: %d/100 (%s)", data.DataQuality.Score, data.DataQuality.Reliability),
			thresholdImpact(float64(data.DataQuality.Score), 74, 50), "")},
	}
}

// goalAverage returns a team's scoring (or conceding) average at the venue,
// or the fallback when unknown
func goalAverage(stats *models.TeamSeasonStats, isHome, scoring bool, fallback float64) float64 {
	if stats == nil {
		return fallback
	}
	avg := stats.GoalsAgainstAvg
	if scoring {
		avg = stats.GoalsForAvg
	}
	if v := avg.Side(isHome); v > 0 {
		return v
	}
	if avg.Total > 0 {
		return avg.Total
	}
	return fallback
}

func boundedInt(x, lo, hi float64) int {
	return int(probability.Clamp(math.Round(x), lo, hi))
}
