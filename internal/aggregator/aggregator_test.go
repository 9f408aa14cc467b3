package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alias1177/FootballPredictor/internal/metrics"
	"github.com/Alias1177/FootballPredictor/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	match *models.Match
}

func (r *fakeRepo) GetMatch(_ context.Context, id string) (*models.Match, error) {
	if r.match == nil || r.match.ID != id {
		return nil, models.ErrMatchNotFound
	}
	m := *r.match
	return &m, nil
}

type fakeProvider struct {
	stats     map[int]*models.TeamSeasonStats
	fixtures  map[int][]models.Fixture
	h2h       []models.Fixture
	standings []models.StandingEntry
	odds      *models.FixtureOdds
	failing   map[string]bool
}

var errUpstream = errors.New("upstream unavailable")

func (p *fakeProvider) TeamStatistics(_ context.Context, teamID, _, _ int) (*models.TeamSeasonStats, error) {
	if p.failing["stats"] {
		return nil, errUpstream
	}
	return p.stats[teamID], nil
}

func (p *fakeProvider) TeamFixtures(_ context.Context, teamID, _, _, _ int) ([]models.Fixture, error) {
	if p.failing["fixtures"] {
		return nil, errUpstream
	}
	return p.fixtures[teamID], nil
}

func (p *fakeProvider) HeadToHead(_ context.Context, _, _, _ int) ([]models.Fixture, error) {
	if p.failing["h2h"] {
		return nil, errUpstream
	}
	return p.h2h, nil
}

func (p *fakeProvider) Standings(_ context.Context, _, _ int) ([]models.StandingEntry, error) {
	if p.failing["standings"] {
		return nil, errUpstream
	}
	return p.standings, nil
}

func (p *fakeProvider) Odds(_ context.Context, _ int) (*models.FixtureOdds, error) {
	if p.failing["odds"] {
		return nil, errUpstream
	}
	return p.odds, nil
}

func intPtr(v int) *int { return &v }

var day0 = time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)

func fixture(id int, daysAgo int, homeID, awayID, hg, ag int) models.Fixture {
	return models.Fixture{
		ID:         id,
		Date:       day0.AddDate(0, 0, -daysAgo),
		Status:     models.StatusFinished,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		HomeTeam:   teamName(homeID),
		AwayTeam:   teamName(awayID),
		HomeGoals:  intPtr(hg),
		AwayGoals:  intPtr(ag),
	}
}

func teamName(id int) string {
	switch id {
	case 1:
		return "Arsenal"
	case 2:
		return "Chelsea"
	default:
		return "Other"
	}
}

func testMatch() *models.Match {
	return &models.Match{
		ID:         "m1",
		ExternalID: 1001,
		LeagueID:   39,
		Season:     2024,
		Kickoff:    day0.AddDate(0, 0, 3),
		Status:     models.StatusNotStarted,
		HomeTeam:   models.TeamInfo{ID: "t1", ExternalID: 1, Name: "Arsenal"},
		AwayTeam:   models.TeamInfo{ID: "t2", ExternalID: 2, Name: "Chelsea"},
	}
}

func tenFixtures(teamID int) []models.Fixture {
	out := make([]models.Fixture, 0, 10)
	for i := 0; i < 10; i++ {
		out = append(out, fixture(100+i, i+1, teamID, 9, 2, 1))
	}
	return out
}

func fullProvider() *fakeProvider {
	return &fakeProvider{
		stats: map[int]*models.TeamSeasonStats{
			1: {Form: "WWWDW"},
			2: {Form: "LDWLW"},
		},
		fixtures: map[int][]models.Fixture{
			1: tenFixtures(1),
			2: tenFixtures(2),
		},
		h2h: []models.Fixture{
			fixture(1, 30, 1, 2, 2, 1),
			fixture(2, 200, 2, 1, 1, 1),
			fixture(3, 400, 2, 1, 3, 0),
			fixture(4, 600, 1, 2, 1, 0),
			fixture(5, 800, 2, 1, 0, 2),
		},
		standings: []models.StandingEntry{
			{TeamID: 1, Rank: 2, Points: 50, GoalDiff: 25},
			{TeamID: 9, Rank: 5, Points: 40, GoalDiff: 5},
			{TeamID: 2, Rank: 8, Points: 33, GoalDiff: -2},
		},
		odds: &models.FixtureOdds{Bookmakers: []models.Bookmaker{{
			Name: "Bet365",
			Bets: []models.Bet{
				{Name: "Match Winner", Values: []models.OddValue{{Value: "Home", Odd: 1.8}, {Value: "Draw", Odd: 3.6}, {Value: "Away", Odd: 4.2}}},
				{Name: "Goals Over/Under", Values: []models.OddValue{{Value: "Over 1.5", Odd: 1.3}, {Value: "Over 2.5", Odd: 1.95}, {Value: "Under 2.5", Odd: 1.85}}},
				{Name: "Both Teams Score", Values: []models.OddValue{{Value: "Yes", Odd: 1.7}, {Value: "No", Odd: 2.1}}},
			},
		}}},
	}
}

func TestAggregateFullData(t *testing.T) {
	agg := New(&fakeRepo{match: testMatch()}, fullProvider(), 2024, nil)

	data, err := agg.Aggregate(context.Background(), "m1")
	require.NoError(t, err)

	assert.Equal(t, 100, data.DataQuality.Score)
	assert.Equal(t, models.ReliabilityHigh, data.DataQuality.Reliability)
	assert.Empty(t, data.DataQuality.Missing)

	require.NotNil(t, data.HeadToHead)
	assert.Equal(t, 5, data.HeadToHead.Total)
	assert.Equal(t, 3, data.HeadToHead.HomeWins)
	assert.Equal(t, 1, data.HeadToHead.Draws)
	assert.Equal(t, 1, data.HeadToHead.AwayWins)
	assert.Equal(t, 2, data.HeadToHead.BTTSCount)
	assert.Equal(t, 2, data.HeadToHead.Over25Count)

	require.NotNil(t, data.Standings)
	assert.Equal(t, 2, data.Standings.HomePosition)
	assert.Equal(t, 8, data.Standings.AwayPosition)
	assert.Equal(t, 3, data.Standings.TotalTeams)

	require.NotNil(t, data.Odds)
	assert.Equal(t, "Bet365", data.Odds.Bookmaker)
	assert.True(t, data.Odds.HasMatchWinner())
	assert.InDelta(t, 1.95, data.Odds.OverUnder.Over25, 1e-9)
	assert.InDelta(t, 2.1, data.Odds.BTTS.No, 1e-9)

	assert.Len(t, data.HomeRecent, 10)
	assert.Len(t, data.AwayRecent, 10)
}

func TestAggregateMatchNotFound(t *testing.T) {
	agg := New(&fakeRepo{}, fullProvider(), 2024, nil)

	_, err := agg.Aggregate(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMatchNotFound))
}

func TestAggregatePartialFailure(t *testing.T) {
	provider := fullProvider()
	provider.failing = map[string]bool{"stats": true, "odds": true}
	m := metrics.NewPredictorMetrics()

	data, err := New(&fakeRepo{match: testMatch()}, provider, 2024, m).Aggregate(context.Background(), "m1")
	require.NoError(t, err)

	assert.Nil(t, data.HomeStats)
	assert.Nil(t, data.AwayStats)
	assert.Nil(t, data.Odds)
	assert.NotNil(t, data.HeadToHead)
	// 100 - 20 - 20 - 10 + 5 + 5 + 5
	assert.Equal(t, 65, data.DataQuality.Score)
	assert.Equal(t, models.ReliabilityMedium, data.DataQuality.Reliability)
	assert.ElementsMatch(t, []string{models.MissingHomeStats, models.MissingAwayStats, models.MissingOdds}, data.DataQuality.Missing)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFailures.WithLabelValues("home_stats")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFailures.WithLabelValues("odds")))
}

func TestAggregateUnusableOddsCountAsMissing(t *testing.T) {
	provider := fullProvider()
	provider.odds = &models.FixtureOdds{Bookmakers: []models.Bookmaker{{
		Name: "Bet365",
		Bets: []models.Bet{{Name: "Asian Handicap", Values: []models.OddValue{{Value: "Home -1", Odd: 2.4}}}},
	}}}

	data, err := New(&fakeRepo{match: testMatch()}, provider, 2024, nil).Aggregate(context.Background(), "m1")
	require.NoError(t, err)

	assert.Nil(t, data.Odds)
	// 100 - 10 + 5 + 5 + 5, capped
	assert.Equal(t, 100, data.DataQuality.Score)
	assert.Equal(t, []string{models.MissingOdds}, data.DataQuality.Missing)
}

func TestAggregateEverythingFails(t *testing.T) {
	provider := &fakeProvider{failing: map[string]bool{
		"stats": true, "fixtures": true, "h2h": true, "standings": true, "odds": true,
	}}

	data, err := New(&fakeRepo{match: testMatch()}, provider, 2024, nil).Aggregate(context.Background(), "m1")
	require.NoError(t, err)

	assert.Equal(t, 10, data.DataQuality.Score)
	assert.Equal(t, models.ReliabilityLow, data.DataQuality.Reliability)
	assert.Len(t, data.DataQuality.Missing, 7)
}

func TestBuildRecent(t *testing.T) {
	unfinished := models.Fixture{ID: 99, Date: day0, Status: models.StatusNotStarted, HomeTeamID: 1, AwayTeamID: 2}
	fixtures := []models.Fixture{
		fixture(1, 20, 2, 1, 3, 1),
		unfinished,
		fixture(2, 5, 1, 2, 1, 1),
		fixture(3, 10, 9, 1, 0, 2),
	}

	recent := BuildRecent(fixtures, 1)
	require.Len(t, recent, 3)

	assert.Equal(t, "D", recent[0].Result)
	assert.True(t, recent[0].IsHome)

	assert.Equal(t, "W", recent[1].Result)
	assert.False(t, recent[1].IsHome)
	assert.Equal(t, 2, recent[1].GoalsScored)
	assert.Equal(t, "Other", recent[1].Opponent())

	assert.Equal(t, "L", recent[2].Result)
	assert.Equal(t, 1, recent[2].GoalsScored)
	assert.Equal(t, 3, recent[2].GoalsConceded)
}

func TestBuildStandingsRequiresBothTeams(t *testing.T) {
	table := []models.StandingEntry{{TeamID: 1, Rank: 1}, {TeamID: 3, Rank: 2}}
	assert.Nil(t, BuildStandings(table, 1, 2))
	assert.Nil(t, BuildStandings(nil, 1, 2))
}

func TestBuildOddsWithoutBookmakers(t *testing.T) {
	assert.Nil(t, BuildOdds(nil))
	assert.Nil(t, BuildOdds(&models.FixtureOdds{FixtureID: 1}))
}

func TestBuildOddsIgnoresFirstHalfMarkets(t *testing.T) {
	raw := &models.FixtureOdds{FixtureID: 1, Bookmakers: []models.Bookmaker{{
		Name: "Bet365",
		Bets: []models.Bet{
			{Name: "Goals Over/Under", Values: []models.OddValue{{Value: "Over 2.5", Odd: 1.90}, {Value: "Under 2.5", Odd: 1.95}}},
			{Name: "Goals Over/Under First Half", Values: []models.OddValue{{Value: "Over 2.5", Odd: 9.00}, {Value: "Under 2.5", Odd: 1.04}}},
			{Name: "Both Teams Score", Values: []models.OddValue{{Value: "Yes", Odd: 1.70}, {Value: "No", Odd: 2.10}}},
			{Name: "Both Teams Score - First Half", Values: []models.OddValue{{Value: "Yes", Odd: 4.50}, {Value: "No", Odd: 1.20}}},
		},
	}}}

	odds := BuildOdds(raw)
	require.NotNil(t, odds)
	assert.Equal(t, 1.90, odds.OverUnder.Over25)
	assert.Equal(t, 1.95, odds.OverUnder.Under25)
	assert.Equal(t, 1.70, odds.BTTS.Yes)
	assert.Equal(t, 2.10, odds.BTTS.No)
	assert.False(t, odds.HasMatchWinner())
}

func TestBuildOddsWithoutUsableMarkets(t *testing.T) {
	raw := &models.FixtureOdds{FixtureID: 1, Bookmakers: []models.Bookmaker{{
		Name: "Bet365",
		Bets: []models.Bet{
			{Name: "Asian Handicap", Values: []models.OddValue{{Value: "Home -1", Odd: 2.4}}},
			{Name: "Match Winner", Values: []models.OddValue{{Value: "Home", Odd: 1.8}}},
		},
	}}}
	assert.Nil(t, BuildOdds(raw))
}

func TestReliabilityFor(t *testing.T) {
	tests := []struct {
		score    int
		expected models.Reliability
	}{
		{100, models.ReliabilityHigh},
		{75, models.ReliabilityHigh},
		{74, models.ReliabilityMedium},
		{50, models.ReliabilityMedium},
		{49, models.ReliabilityLow},
		{0, models.ReliabilityLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ReliabilityFor(tt.score), "score %d", tt.score)
	}
}
