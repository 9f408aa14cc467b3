package apisports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	httpClient "github.com/Alias1177/FootballPredictor/internal/platform/http"
	"github.com/Alias1177/FootballPredictor/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the API-Football v3 endpoint
const DefaultBaseURL = "https://v3.football.api-sports.io"

// Client is the API-Football sports data client
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new API-Football client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new API-Football client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
		Headers:         map[string]string{"x-apisports-key": options.APIKey},
	}

	// Apply defaults if not set
	if httpOpts.Timeout == 0 {
		httpOpts.Timeout = 30 * time.Second
	}
	if httpOpts.RequestsPerSec == 0 {
		httpOpts.RequestsPerSec = 5
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "apisports_client").Logger(),
	}
}

// get fetches an endpoint and returns the raw "response" member
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	c.logger.Debug().Str("endpoint", endpoint).Str("params", params.Encode()).Msg("Fetching from API-Football")

	body, err := c.httpClient.GetBody(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing %s response: %w", endpoint, err)
	}

	if env.hasErrors() {
		c.logger.Error().Str("endpoint", endpoint).RawJSON("errors", env.Errors).Msg("API-Football returned errors")
		return nil, fmt.Errorf("API-Football error on %s: %s", endpoint, string(env.Errors))
	}

	c.logger.Debug().Str("endpoint", endpoint).Int("results", env.Results).Msg("API-Football response received")
	return env.Response, nil
}

// TeamStatistics returns a team's season statistics in a league, or nil when the API has none
func (c *Client) TeamStatistics(ctx context.Context, teamID, leagueID, season int) (*models.TeamSeasonStats, error) {
	raw, err := c.get(ctx, "/teams/statistics", url.Values{
		"team":   {strconv.Itoa(teamID)},
		"league": {strconv.Itoa(leagueID)},
		"season": {strconv.Itoa(season)},
	})
	if err != nil {
		return nil, err
	}

	var stats teamStatistics
	switch first := firstByte(raw); first {
	case '{':
		if err := json.Unmarshal(raw, &stats); err != nil {
			return nil, fmt.Errorf("decoding team statistics: %w", err)
		}
	case '[':
		var list []teamStatistics
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decoding team statistics: %w", err)
		}
		if len(list) == 0 {
			return nil, nil
		}
		stats = list[0]
	default:
		return nil, nil
	}

	return stats.toModel(), nil
}

// TeamFixtures returns a team's last fixtures in a league season
func (c *Client) TeamFixtures(ctx context.Context, teamID, leagueID, season, last int) ([]models.Fixture, error) {
	return c.fixtures(ctx, "/fixtures", url.Values{
		"team":   {strconv.Itoa(teamID)},
		"league": {strconv.Itoa(leagueID)},
		"season": {strconv.Itoa(season)},
		"last":   {strconv.Itoa(last)},
	})
}

// HeadToHead returns the last meetings between two teams
func (c *Client) HeadToHead(ctx context.Context, homeID, awayID, last int) ([]models.Fixture, error) {
	return c.fixtures(ctx, "/fixtures/headtohead", url.Values{
		"h2h":  {fmt.Sprintf("%d-%d", homeID, awayID)},
		"last": {strconv.Itoa(last)},
	})
}

func (c *Client) fixtures(ctx context.Context, endpoint string, params url.Values) ([]models.Fixture, error) {
	raw, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var items []fixtureItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding fixtures: %w", err)
	}

	fixtures := make([]models.Fixture, 0, len(items))
	for i := range items {
		fixtures = append(fixtures, items[i].toModel())
	}
	return fixtures, nil
}

// Match returns a single fixture as a match, or models.ErrMatchNotFound
func (c *Client) Match(ctx context.Context, fixtureID int) (*models.Match, error) {
	raw, err := c.get(ctx, "/fixtures", url.Values{"id": {strconv.Itoa(fixtureID)}})
	if err != nil {
		return nil, err
	}

	var items []fixtureItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("fixture %d: %w", fixtureID, models.ErrMatchNotFound)
	}
	return items[0].toMatch(), nil
}

// Standings returns the first table of a league season
func (c *Client) Standings(ctx context.Context, leagueID, season int) ([]models.StandingEntry, error) {
	raw, err := c.get(ctx, "/standings", url.Values{
		"league": {strconv.Itoa(leagueID)},
		"season": {strconv.Itoa(season)},
	})
	if err != nil {
		return nil, err
	}

	var items []standingsItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding standings: %w", err)
	}
	if len(items) == 0 || len(items[0].League.Standings) == 0 {
		return nil, nil
	}

	table := items[0].League.Standings[0]
	entries := make([]models.StandingEntry, 0, len(table))
	for _, row := range table {
		entries = append(entries, models.StandingEntry{
			TeamID:   row.Team.ID,
			TeamName: row.Team.Name,
			Rank:     row.Rank,
			Points:   row.Points,
			GoalDiff: row.GoalsDiff,
		})
	}
	return entries, nil
}

// Odds returns the pre-match odds of a fixture, or nil when none are offered
func (c *Client) Odds(ctx context.Context, fixtureID int) (*models.FixtureOdds, error) {
	raw, err := c.get(ctx, "/odds", url.Values{"fixture": {strconv.Itoa(fixtureID)}})
	if err != nil {
		return nil, err
	}

	var items []oddsItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding odds: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0].toModel(), nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
