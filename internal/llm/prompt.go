package llm

import (
	"fmt"
	"strings"

	"github.com/Alias1177/FootballPredictor/models"
)

// SystemPrompt frames the provider as a JSON-only analyst
const SystemPrompt = "You are an expert football analyst. Always respond with valid JSON only, no additional text or markdown formatting."

const responseFormat = `Respond ONLY with valid JSON in this exact format:
{
  "matchOutcome": {
    "homeWin": <number 0-100>,
    "draw": <number 0-100>,
    "awayWin": <number 0-100>,
    "predicted": "<1 or X or 2>",
    "confidence": <number 0-100>,
    "reasoning": "<2-3 sentence explanation>"
  },
  "btts": {
    "yes": <number 0-100>,
    "no": <number 0-100>,
    "predicted": "<Yes or No>",
    "confidence": <number 0-100>,
    "reasoning": "<1-2 sentence explanation>"
  },
  "overUnder": {
    "over25": <number 0-100>,
    "under25": <number 0-100>,
    "predicted": "<Over or Under>",
    "confidence": <number 0-100>,
    "reasoning": "<1-2 sentence explanation>"
  },
  "analysis": "<3-4 sentence overall match analysis covering key factors>"
}`

// BuildPrompt renders every aggregated field into the analysis prompt
func BuildPrompt(data *models.AggregatedMatchData) string {
	m := data.Match
	home, away := m.HomeTeam.Name, m.AwayTeam.Name

	league := m.League
	if league == "" {
		league = "Unknown League"
	}
	venue := m.Venue
	if venue == "" {
		venue = "Home Stadium"
	}

	var sb strings.Builder
	sb.WriteString("You are a world-class football analyst with deep knowledge of European football leagues. Analyze this match comprehensively.\n\n")

	sb.WriteString("=== MATCH INFORMATION ===\n")
	fmt.Fprintf(&sb, "Home Team: %s\nAway Team: %s\nLeague: %s\nDate: %s\nVenue: %s\n\n",
		home, away, league, m.Kickoff.Format("2006-01-02"), venue)

	fmt.Fprintf(&sb, "=== %s SEASON STATISTICS ===\n%s\n\n", strings.ToUpper(home), formatStats(data.HomeStats))
	fmt.Fprintf(&sb, "=== %s SEASON STATISTICS ===\n%s\n\n", strings.ToUpper(away), formatStats(data.AwayStats))

	sb.WriteString("=== RECENT FORM (Last 5 matches) ===\n")
	fmt.Fprintf(&sb, "%s: %s\n%s: %s\n\n", home, formatRecent(data.HomeRecent), away, formatRecent(data.AwayRecent))

	fmt.Fprintf(&sb, "=== HEAD TO HEAD HISTORY ===\n%s\n\n", formatH2H(data.HeadToHead, home, away))
	fmt.Fprintf(&sb, "=== LEAGUE STANDINGS ===\n%s\n\n", formatStandings(data.Standings, home, away))
	fmt.Fprintf(&sb, "=== BETTING ODDS (Market Indicator) ===\n%s\n\n", formatOdds(data.Odds))

	sb.WriteString("=== ANALYSIS INSTRUCTIONS ===\n")
	sb.WriteString("Based on ALL the data above, provide your expert predictions. Consider:\n")
	fmt.Fprintf(&sb, "1. Home advantage - %s playing at home typically gives them an edge\n", home)
	sb.WriteString(`2. Current form - Weight recent results heavily
3. Head-to-head record - Historical patterns between these teams
4. League position - Quality difference reflected in standings
5. Goals patterns - Scoring and conceding trends (clean sheets, failed to score)
6. Market odds - Bookmaker analysis as reference (not gospel)

IMPORTANT: Provide realistic percentages that reflect true probabilities.

`)
	sb.WriteString(responseFormat)

	return sb.String()
}

func formatStats(s *models.TeamSeasonStats) string {
	if s == nil {
		return "No season statistics available"
	}
	form := s.Form
	if form == "" {
		form = "N/A"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Form: %s\n", form)
	writeSplit(&sb, "Played", s.Played)
	writeSplit(&sb, "Wins", s.Wins)
	writeSplit(&sb, "Draws", s.Draws)
	writeSplit(&sb, "Losses", s.Losses)
	writeSplit(&sb, "Goals Scored", s.GoalsFor)
	writeSplit(&sb, "Goals Conceded", s.GoalsAgainst)
	fmt.Fprintf(&sb, "Avg Goals Scored: %.2f per game\n", s.GoalsForAvg.Total)
	fmt.Fprintf(&sb, "Avg Goals Conceded: %.2f per game\n", s.GoalsAgainstAvg.Total)
	writeSplit(&sb, "Clean Sheets", s.CleanSheets)
	fmt.Fprintf(&sb, "Failed to Score: %d (Home: %d, Away: %d)", s.FailedToScore.Total, s.FailedToScore.Home, s.FailedToScore.Away)
	return sb.String()
}

func writeSplit(sb *strings.Builder, label string, s models.SplitInt) {
	fmt.Fprintf(sb, "%s: %d (Home: %d, Away: %d)\n", label, s.Total, s.Home, s.Away)
}

func formatRecent(recent []models.RecentMatch) string {
	if len(recent) == 0 {
		return "No recent matches"
	}
	n := len(recent)
	if n > 5 {
		n = 5
	}

	parts := make([]string, 0, n)
	for _, r := range recent[:n] {
		venue := "(A)"
		if r.IsHome {
			venue = "(H)"
		}
		parts = append(parts, fmt.Sprintf("%s(%d-%d) vs %s%s", r.Result, r.GoalsScored, r.GoalsConceded, r.Opponent(), venue))
	}
	return strings.Join(parts, ", ")
}

func formatH2H(h *models.H2HData, home, away string) string {
	if h == nil || h.Total == 0 {
		return "No head-to-head data available"
	}
	total := float64(h.Total)
	goals := h.HomeGoals + h.AwayGoals

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total Meetings: %d\n", h.Total)
	fmt.Fprintf(&sb, "%s Wins: %d | Draws: %d | %s Wins: %d\n", home, h.HomeWins, h.Draws, away, h.AwayWins)
	fmt.Fprintf(&sb, "Total Goals: %d (Avg: %.2f per match)\n", goals, float64(goals)/total)
	fmt.Fprintf(&sb, "BTTS: %d/%d (%.0f%%)\n", h.BTTSCount, h.Total, float64(h.BTTSCount)/total*100)
	fmt.Fprintf(&sb, "Over 2.5 Goals: %d/%d (%.0f%%)", h.Over25Count, h.Total, float64(h.Over25Count)/total*100)

	if len(h.Matches) > 0 {
		n := len(h.Matches)
		if n > 3 {
			n = 3
		}
		meetings := make([]string, 0, n)
		for _, mt := range h.Matches[:n] {
			meetings = append(meetings, fmt.Sprintf("%s %d-%d %s (%s)",
				mt.HomeTeam, mt.HomeScore, mt.AwayScore, mt.AwayTeam, mt.Date.Format("2006-01-02")))
		}
		sb.WriteString("\nRecent H2H: " + strings.Join(meetings, " | "))
	}
	return sb.String()
}

func formatStandings(s *models.StandingsData, home, away string) string {
	if s == nil {
		return "No standings data available"
	}
	gap := s.HomePosition - s.AwayPosition
	if gap < 0 {
		gap = -gap
	}
	return fmt.Sprintf("%s: Position #%d (%d pts, GD: %+d)\n%s: Position #%d (%d pts, GD: %+d)\nPosition Gap: %d places (out of %d teams)",
		home, s.HomePosition, s.HomePoints, s.HomeGoalDiff,
		away, s.AwayPosition, s.AwayPoints, s.AwayGoalDiff,
		gap, s.TotalTeams)
}

func formatOdds(o *models.OddsData) string {
	if !o.HasMatchWinner() {
		return "No betting odds available"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Match Winner: Home %.2f | Draw %.2f | Away %.2f", o.MatchWinner.Home, o.MatchWinner.Draw, o.MatchWinner.Away)
	if o.HasBTTS() {
		fmt.Fprintf(&sb, "\nBTTS: Yes %.2f | No %.2f", o.BTTS.Yes, o.BTTS.No)
	}
	if o.HasTotals() {
		fmt.Fprintf(&sb, "\nOver/Under 2.5: Over %.2f | Under %.2f", o.OverUnder.Over25, o.OverUnder.Under25)
	}
	bookmaker := o.Bookmaker
	if bookmaker == "" {
		bookmaker = "Various"
	}
	fmt.Fprintf(&sb, "\nBookmaker: %s", bookmaker)
	return sb.String()
}
