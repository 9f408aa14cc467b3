package aggregator

import "github.com/Alias1177/FootballPredictor/models"

// Quality score adjustments
const (
	missingStatsPenalty    = 20
	missingSourcePenalty   = 10
	minRecentMatches       = 5
	fullRecentMatches      = 10
	richH2HMeetings        = 5
	completenessBonus      = 5
	highReliabilityScore   = 75
	mediumReliabilityScore = 50
)

// AssessQuality scores how complete the aggregated inputs are
func AssessQuality(data *models.AggregatedMatchData) models.DataQuality {
	score := 100
	missing := []string{}

	if data.HomeStats == nil {
		score -= missingStatsPenalty
		missing = append(missing, models.MissingHomeStats)
	}
	if data.AwayStats == nil {
		score -= missingStatsPenalty
		missing = append(missing, models.MissingAwayStats)
	}
	if data.HeadToHead == nil || data.HeadToHead.Total == 0 {
		score -= missingSourcePenalty
		missing = append(missing, models.MissingH2H)
	}
	if len(data.HomeRecent) < minRecentMatches {
		score -= missingSourcePenalty
		missing = append(missing, models.MissingHomeRecent)
	}
	if len(data.AwayRecent) < minRecentMatches {
		score -= missingSourcePenalty
		missing = append(missing, models.MissingAwayRecent)
	}
	if data.Standings == nil {
		score -= missingSourcePenalty
		missing = append(missing, models.MissingStandings)
	}
	if data.Odds == nil {
		score -= missingSourcePenalty
		missing = append(missing, models.MissingOdds)
	}

	if len(data.HomeRecent) >= fullRecentMatches {
		score += completenessBonus
	}
	if len(data.AwayRecent) >= fullRecentMatches {
		score += completenessBonus
	}
	if data.HeadToHead != nil && data.HeadToHead.Total >= richH2HMeetings {
		score += completenessBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return models.DataQuality{
		Score:       score,
		Reliability: ReliabilityFor(score),
		Missing:     missing,
	}
}

// ReliabilityFor maps a quality score to its tier
func ReliabilityFor(score int) models.Reliability {
	switch {
	case score >= highReliabilityScore:
		return models.ReliabilityHigh
	case score >= mediumReliabilityScore:
		return models.ReliabilityMedium
	default:
		return models.ReliabilityLow
	}
}
