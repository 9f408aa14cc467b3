package orchestrator

import (
	"fmt"
	"strings"

	"github.com/Alias1177/FootballPredictor/models"
)

// TemplateAnalysis writes a deterministic match preview from the statistical markets
func TemplateAnalysis(data *models.AggregatedMatchData, p *models.CompletePrediction) string {
	home, away := data.Match.HomeTeam.Name, data.Match.AwayTeam.Name
	outcome := p.MatchOutcome

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s enter this fixture in %s form. ", home, DescribeForm(data.HomeRecent))
	fmt.Fprintf(&sb, "Their opponents %s have been showing %s performances recently. ", away, DescribeForm(data.AwayRecent))

	if s := data.Standings; s != nil {
		switch {
		case abs(s.HomePosition-s.AwayPosition) <= 3:
			sb.WriteString("Both teams are closely positioned in the league standings. ")
		case s.HomePosition < s.AwayPosition:
			fmt.Fprintf(&sb, "%s currently sit higher in the league table. ", home)
		default:
			fmt.Fprintf(&sb, "%s hold a better league position. ", away)
		}
	}

	sb.WriteString("\n\n")
	favourite, favouriteProb := "", outcome.HomeWin
	switch {
	case outcome.HomeWin > outcome.AwayWin:
		favourite = home
	case outcome.AwayWin > outcome.HomeWin:
		favourite, favouriteProb = away, outcome.AwayWin
	}
	if favourite != "" && favouriteProb > 40 {
		fmt.Fprintf(&sb, "Based on statistical analysis, %s appear to be favourites with a %.0f%% win probability. ", favourite, favouriteProb)
	} else {
		fmt.Fprintf(&sb, "This looks like an evenly matched contest, with the draw probability at %.0f%%. ", outcome.Draw)
	}

	totalXG := p.Stats.ExpectedGoals.Home + p.Stats.ExpectedGoals.Away
	switch {
	case totalXG > 2.8:
		fmt.Fprintf(&sb, "With expected goals at %.1f, this could be a high-scoring affair. ", totalXG)
	case totalXG < 2.2:
		fmt.Fprintf(&sb, "A low-scoring match is anticipated with total expected goals at %.1f. ", totalXG)
	}

	switch {
	case p.BTTS.Yes > 55:
		fmt.Fprintf(&sb, "Both teams finding the net seems likely (%.0f%% probability). ", p.BTTS.Yes)
	case p.BTTS.No > 55:
		sb.WriteString("At least one team may fail to score in this encounter. ")
	}

	if h := data.HeadToHead; h != nil && h.Total >= 3 {
		sb.WriteString("\n\n")
		fmt.Fprintf(&sb, "In the last %d meetings, %s have recorded %d wins, %d draws, and %d defeats. ",
			h.Total, home, h.HomeWins, h.Draws, h.AwayWins)

		switch {
		case h.HomeWins > h.AwayWins:
			fmt.Fprintf(&sb, "The head-to-head record favours %s. ", home)
		case h.AwayWins > h.HomeWins:
			fmt.Fprintf(&sb, "Historical meetings give %s the edge. ", away)
		}
	}

	return strings.TrimSpace(sb.String())
}

// DescribeForm summarises the last five results in one word
func DescribeForm(recent []models.RecentMatch) string {
	if len(recent) == 0 {
		return "unknown"
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	var wins, draws, losses int
	for _, m := range recent {
		switch m.Result {
		case "W":
			wins++
		case "D":
			draws++
		case "L":
			losses++
		}
	}

	switch {
	case wins >= 4:
		return "excellent"
	case wins >= 3:
		return "good"
	case wins >= 2 && losses <= 1:
		return "consistent"
	case losses >= 4:
		return "poor"
	case losses >= 3:
		return "struggling"
	case draws >= 3:
		return "draw-prone"
	default:
		return "mixed"
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
