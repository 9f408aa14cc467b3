package aggregator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Alias1177/FootballPredictor/internal/metrics"
	"github.com/Alias1177/FootballPredictor/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Number of fixtures requested per provider call
const (
	RecentLimit = 10
	H2HLimit    = 10
)

// MatchRepository resolves internal match records
type MatchRepository interface {
	GetMatch(ctx context.Context, id string) (*models.Match, error)
}

// DataProvider is the sports data source queried for every prediction
type DataProvider interface {
	TeamStatistics(ctx context.Context, teamID, leagueID, season int) (*models.TeamSeasonStats, error)
	TeamFixtures(ctx context.Context, teamID, leagueID, season, last int) ([]models.Fixture, error)
	HeadToHead(ctx context.Context, homeID, awayID, last int) ([]models.Fixture, error)
	Standings(ctx context.Context, leagueID, season int) ([]models.StandingEntry, error)
	Odds(ctx context.Context, fixtureID int) (*models.FixtureOdds, error)
}

// Aggregator collects every input a prediction needs
type Aggregator struct {
	matches       MatchRepository
	provider      DataProvider
	defaultSeason int
	metrics       *metrics.PredictorMetrics
	logger        zerolog.Logger
}

// New creates an aggregator. metrics may be nil.
func New(matches MatchRepository, provider DataProvider, defaultSeason int, m *metrics.PredictorMetrics) *Aggregator {
	return &Aggregator{
		matches:       matches,
		provider:      provider,
		defaultSeason: defaultSeason,
		metrics:       m,
		logger:        log.With().Str("component", "aggregator").Logger(),
	}
}

// Aggregate loads the match and fans out to the provider. Only a repository
// failure is returned; provider failures leave the corresponding field empty.
func (a *Aggregator) Aggregate(ctx context.Context, matchID string) (*models.AggregatedMatchData, error) {
	match, err := a.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("loading match %s: %w", matchID, err)
	}

	season := match.Season
	if season == 0 {
		season = a.defaultSeason
	}
	homeID := match.HomeTeam.ExternalID
	awayID := match.AwayTeam.ExternalID
	leagueID := match.LeagueID

	var (
		homeStats, awayStats   *models.TeamSeasonStats
		homeRecent, awayRecent []models.RecentMatch
		h2h                    *models.H2HData
		standings              *models.StandingsData
		odds                   *models.OddsData
	)

	var g errgroup.Group

	if homeID != 0 && leagueID != 0 {
		g.Go(func() error {
			s, err := a.provider.TeamStatistics(ctx, homeID, leagueID, season)
			if a.failed("home_stats", matchID, err) {
				return nil
			}
			homeStats = s
			return nil
		})
	}
	if awayID != 0 && leagueID != 0 {
		g.Go(func() error {
			s, err := a.provider.TeamStatistics(ctx, awayID, leagueID, season)
			if a.failed("away_stats", matchID, err) {
				return nil
			}
			awayStats = s
			return nil
		})
	}
	if homeID != 0 && awayID != 0 {
		g.Go(func() error {
			fixtures, err := a.provider.HeadToHead(ctx, homeID, awayID, H2HLimit)
			if a.failed("h2h", matchID, err) {
				return nil
			}
			h2h = BuildH2H(fixtures, homeID)
			return nil
		})
	}
	if homeID != 0 {
		g.Go(func() error {
			fixtures, err := a.provider.TeamFixtures(ctx, homeID, leagueID, season, RecentLimit)
			if a.failed("home_recent", matchID, err) {
				return nil
			}
			homeRecent = BuildRecent(fixtures, homeID)
			return nil
		})
	}
	if awayID != 0 {
		g.Go(func() error {
			fixtures, err := a.provider.TeamFixtures(ctx, awayID, leagueID, season, RecentLimit)
			if a.failed("away_recent", matchID, err) {
				return nil
			}
			awayRecent = BuildRecent(fixtures, awayID)
			return nil
		})
	}
	if leagueID != 0 && homeID != 0 && awayID != 0 {
		g.Go(func() error {
			table, err := a.provider.Standings(ctx, leagueID, season)
			if a.failed("standings", matchID, err) {
				return nil
			}
			standings = BuildStandings(table, homeID, awayID)
			return nil
		})
	}
	if match.ExternalID != 0 {
		g.Go(func() error {
			raw, err := a.provider.Odds(ctx, match.ExternalID)
			if a.failed("odds", matchID, err) {
				return nil
			}
			odds = BuildOdds(raw)
			return nil
		})
	}

	// Every task swallows its error
	_ = g.Wait()

	data := &models.AggregatedMatchData{
		Match:      *match,
		HomeStats:  homeStats,
		AwayStats:  awayStats,
		HomeRecent: homeRecent,
		AwayRecent: awayRecent,
		HeadToHead: h2h,
		Standings:  standings,
		Odds:       odds,
	}
	data.DataQuality = AssessQuality(data)

	a.metrics.RecordDataQuality(string(data.DataQuality.Reliability), data.DataQuality.Score)
	a.logger.Debug().
		Str("match_id", matchID).
		Int("quality", data.DataQuality.Score).
		Strs("missing", data.DataQuality.Missing).
		Msg("Match data aggregated")

	return data, nil
}

func (a *Aggregator) failed(source, matchID string, err error) bool {
	if err == nil {
		return false
	}
	a.logger.Warn().Err(err).Str("source", source).Str("match_id", matchID).Msg("Data source failed")
	a.metrics.RecordSourceFailure(source)
	return true
}

// isFinished reports whether a provider fixture has a final score
func isFinished(f models.Fixture) bool {
	return f.HomeGoals != nil && f.AwayGoals != nil && models.IsFinishedStatus(f.Status)
}

// BuildRecent converts fixtures to finished matches seen from teamID's side,
// most recent first
func BuildRecent(fixtures []models.Fixture, teamID int) []models.RecentMatch {
	finished := make([]models.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if isFinished(f) {
			finished = append(finished, f)
		}
	}
	sort.SliceStable(finished, func(i, j int) bool {
		return finished[i].Date.After(finished[j].Date)
	})
	if len(finished) > RecentLimit {
		finished = finished[:RecentLimit]
	}

	recent := make([]models.RecentMatch, 0, len(finished))
	for _, f := range finished {
		isHome := f.HomeTeamID == teamID
		scored, conceded := *f.HomeGoals, *f.AwayGoals
		if !isHome {
			scored, conceded = conceded, scored
		}

		result := "D"
		if scored > conceded {
			result = "W"
		} else if scored < conceded {
			result = "L"
		}

		recent = append(recent, models.RecentMatch{
			Date:          f.Date,
			HomeTeam:      f.HomeTeam,
			AwayTeam:      f.AwayTeam,
			IsHome:        isHome,
			GoalsScored:   scored,
			GoalsConceded: conceded,
			Result:        result,
		})
	}
	return recent
}

// BuildH2H aggregates past meetings from the perspective of homeID,
// regardless of where each meeting was played
func BuildH2H(fixtures []models.Fixture, homeID int) *models.H2HData {
	h2h := &models.H2HData{}
	for _, f := range fixtures {
		if !isFinished(f) {
			continue
		}
		hg, ag := *f.HomeGoals, *f.AwayGoals

		ours, theirs := hg, ag
		if f.HomeTeamID != homeID {
			ours, theirs = ag, hg
		}
		switch {
		case ours > theirs:
			h2h.HomeWins++
		case ours < theirs:
			h2h.AwayWins++
		default:
			h2h.Draws++
		}
		h2h.HomeGoals += ours
		h2h.AwayGoals += theirs

		if hg > 0 && ag > 0 {
			h2h.BTTSCount++
		}
		if hg+ag > 2 {
			h2h.Over25Count++
		}

		h2h.Total++
		h2h.Matches = append(h2h.Matches, models.H2HMatch{
			Date:      f.Date,
			HomeTeam:  f.HomeTeam,
			AwayTeam:  f.AwayTeam,
			HomeScore: hg,
			AwayScore: ag,
		})
	}

	if h2h.Total == 0 {
		return nil
	}
	sort.SliceStable(h2h.Matches, func(i, j int) bool {
		return h2h.Matches[i].Date.After(h2h.Matches[j].Date)
	})
	return h2h
}

// BuildStandings extracts both teams' rows; nil unless both are present
func BuildStandings(table []models.StandingEntry, homeID, awayID int) *models.StandingsData {
	var home, away *models.StandingEntry
	for i := range table {
		switch table[i].TeamID {
		case homeID:
			home = &table[i]
		case awayID:
			away = &table[i]
		}
	}
	if home == nil || away == nil {
		return nil
	}

	return &models.StandingsData{
		HomePosition: home.Rank,
		AwayPosition: away.Rank,
		HomePoints:   home.Points,
		AwayPoints:   away.Points,
		HomeGoalDiff: home.GoalDiff,
		AwayGoalDiff: away.GoalDiff,
		TotalTeams:   len(table),
	}
}

// Full-time bet names; first-half variants share these as prefixes
const (
	betMatchWinner = "match winner"
	betOverUnder   = "goals over/under"
	betBTTS        = "both teams score"
)

// BuildOdds normalizes the first bookmaker's full-time markets. It returns
// nil when none of them carries usable prices.
func BuildOdds(raw *models.FixtureOdds) *models.OddsData {
	if raw == nil || len(raw.Bookmakers) == 0 {
		return nil
	}

	bookmaker := raw.Bookmakers[0]
	odds := &models.OddsData{Bookmaker: bookmaker.Name}

	for _, bet := range bookmaker.Bets {
		switch strings.ToLower(strings.TrimSpace(bet.Name)) {
		case betMatchWinner:
			for _, v := range bet.Values {
				switch v.Value {
				case "Home":
					odds.MatchWinner.Home = v.Odd
				case "Draw":
					odds.MatchWinner.Draw = v.Odd
				case "Away":
					odds.MatchWinner.Away = v.Odd
				}
			}
		case betOverUnder:
			for _, v := range bet.Values {
				switch v.Value {
				case "Over 2.5":
					odds.OverUnder.Over25 = v.Odd
				case "Under 2.5":
					odds.OverUnder.Under25 = v.Odd
				}
			}
		case betBTTS:
			for _, v := range bet.Values {
				switch v.Value {
				case "Yes":
					odds.BTTS.Yes = v.Odd
				case "No":
					odds.BTTS.No = v.Odd
				}
			}
		}
	}

	if !odds.HasMatchWinner() && !odds.HasTotals() && !odds.HasBTTS() {
		return nil
	}
	return odds
}
