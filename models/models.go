package models

import (
	"time"
)

// Outcome is a 1X2 match result code
type Outcome string

const (
	OutcomeHome Outcome = "1"
	OutcomeDraw Outcome = "X"
	OutcomeAway Outcome = "2"
)

// ConfidenceLevel is the overall confidence tier of a prediction
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "High"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceLow    ConfidenceLevel = "Low"
)

// Reliability is the categorical data quality tier
type Reliability string

const (
	ReliabilityHigh   Reliability = "high"
	ReliabilityMedium Reliability = "medium"
	ReliabilityLow    Reliability = "low"
)

// Impact describes the direction a factor pushes a prediction
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// PredictionSource tells which estimator path produced outcome, BTTS and over/under
type PredictionSource string

const (
	SourceStatistical PredictionSource = "statistical"
	SourceLLM         PredictionSource = "llm"
)

// Missing data keys reported in DataQuality.Missing
const (
	MissingHomeStats  = "homeStats"
	MissingAwayStats  = "awayStats"
	MissingH2H        = "h2h"
	MissingHomeRecent = "homeRecentForm"
	MissingAwayRecent = "awayRecentForm"
	MissingStandings  = "standings"
	MissingOdds       = "odds"
)

// Match status codes used by the provider
const (
	StatusNotStarted     = "NS"
	StatusFinished       = "FT"
	StatusAfterExtraTime = "AET"
	StatusAfterPenalties = "PEN"
)

// IsFinishedStatus reports whether a status code means the result is final
func IsFinishedStatus(status string) bool {
	switch status {
	case StatusFinished, StatusAfterExtraTime, StatusAfterPenalties:
		return true
	}
	return false
}

// TeamInfo identifies a team both internally and at the data provider
type TeamInfo struct {
	ID         string `json:"id"`
	ExternalID int    `json:"externalId"`
	Name       string `json:"name"`
}

// Match is a fixture as resolved by the ingestion subsystem
type Match struct {
	ID          string    `json:"id"`
	ExternalID  int       `json:"externalId"`
	LeagueID    int       `json:"leagueId"`
	League      string    `json:"league"`
	Season      int       `json:"season"`
	Kickoff     time.Time `json:"kickoff"`
	Venue       string    `json:"venue,omitempty"`
	Status      string    `json:"status"`
	HomeTeam    TeamInfo  `json:"homeTeam"`
	AwayTeam    TeamInfo  `json:"awayTeam"`
	HomeGoals   *int      `json:"homeGoals,omitempty"`
	AwayGoals   *int      `json:"awayGoals,omitempty"`
	HTHomeGoals *int      `json:"htHomeGoals,omitempty"`
	HTAwayGoals *int      `json:"htAwayGoals,omitempty"`
}

// IsFinished reports whether the match has a recorded final score
func (m *Match) IsFinished() bool {
	return m.HomeGoals != nil && m.AwayGoals != nil
}

// SplitInt holds a count split by venue
type SplitInt struct {
	Home  int `json:"home"`
	Away  int `json:"away"`
	Total int `json:"total"`
}

// Side returns the home or away part of the split
func (s SplitInt) Side(home bool) int {
	if home {
		return s.Home
	}
	return s.Away
}

// SplitFloat holds an average split by venue
type SplitFloat struct {
	Home  float64 `json:"home"`
	Away  float64 `json:"away"`
	Total float64 `json:"total"`
}

// Side returns the home or away part of the split
func (s SplitFloat) Side(home bool) float64 {
	if home {
		return s.Home
	}
	return s.Away
}

// TeamSeasonStats holds a team's season statistics in one league
type TeamSeasonStats struct {
	Form            string     `json:"form"`
	Played          SplitInt   `json:"played"`
	Wins            SplitInt   `json:"wins"`
	Draws           SplitInt   `json:"draws"`
	Losses          SplitInt   `json:"losses"`
	GoalsFor        SplitInt   `json:"goalsFor"`
	GoalsAgainst    SplitInt   `json:"goalsAgainst"`
	GoalsForAvg     SplitFloat `json:"goalsForAvg"`
	GoalsAgainstAvg SplitFloat `json:"goalsAgainstAvg"`
	CleanSheets     SplitInt   `json:"cleanSheets"`
	FailedToScore   SplitInt   `json:"failedToScore"`
}

// Fixture is a provider-level fixture used for recent form and head-to-head
type Fixture struct {
	ID         int       `json:"id"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	HomeTeamID int       `json:"homeTeamId"`
	AwayTeamID int       `json:"awayTeamId"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
	HomeGoals  *int      `json:"homeGoals,omitempty"`
	AwayGoals  *int      `json:"awayGoals,omitempty"`
}

// StandingEntry is a single row of a league table
type StandingEntry struct {
	TeamID   int    `json:"teamId"`
	TeamName string `json:"teamName"`
	Rank     int    `json:"rank"`
	Points   int    `json:"points"`
	GoalDiff int    `json:"goalDiff"`
}

// OddValue is one selection of a bookmaker bet
type OddValue struct {
	Value string  `json:"value"`
	Odd   float64 `json:"odd"`
}

// Bet is one market offered by a bookmaker
type Bet struct {
	Name   string     `json:"name"`
	Values []OddValue `json:"values"`
}

// Bookmaker groups the markets of one bookmaker
type Bookmaker struct {
	Name string `json:"name"`
	Bets []Bet  `json:"bets"`
}

// FixtureOdds is the raw odds payload for a fixture
type FixtureOdds struct {
	FixtureID  int         `json:"fixtureId"`
	Bookmakers []Bookmaker `json:"bookmakers"`
}

// RecentMatch is a finished match seen from one team's side
type RecentMatch struct {
	Date          time.Time `json:"date"`
	HomeTeam      string    `json:"homeTeam"`
	AwayTeam      string    `json:"awayTeam"`
	IsHome        bool      `json:"isHome"`
	GoalsScored   int       `json:"goalsScored"`
	GoalsConceded int       `json:"goalsConceded"`
	Result        string    `json:"result"` // W, D or L
}

// Opponent returns the name of the other team
func (r RecentMatch) Opponent() string {
	if r.IsHome {
		return r.AwayTeam
	}
	return r.HomeTeam
}

// H2HMatch is a past meeting between the two teams
type H2HMatch struct {
	Date      time.Time `json:"date"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	HomeScore int       `json:"homeScore"`
	AwayScore int       `json:"awayScore"`
}

// H2HData aggregates head-to-head meetings from the home team's perspective
type H2HData struct {
	Total       int        `json:"total"`
	HomeWins    int        `json:"homeWins"`
	Draws       int        `json:"draws"`
	AwayWins    int        `json:"awayWins"`
	HomeGoals   int        `json:"homeGoals"`
	AwayGoals   int        `json:"awayGoals"`
	BTTSCount   int        `json:"bttsCount"`
	Over25Count int        `json:"over25Count"`
	Matches     []H2HMatch `json:"matches"`
}

// StandingsData holds both teams' league table positions
type StandingsData struct {
	HomePosition int `json:"homePosition"`
	AwayPosition int `json:"awayPosition"`
	HomePoints   int `json:"homePoints"`
	AwayPoints   int `json:"awayPoints"`
	HomeGoalDiff int `json:"homeGoalDiff"`
	AwayGoalDiff int `json:"awayGoalDiff"`
	TotalTeams   int `json:"totalTeams"`
}

// ThreeWayOdds are decimal 1X2 odds
type ThreeWayOdds struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// TotalsOdds are decimal over/under 2.5 odds
type TotalsOdds struct {
	Over25  float64 `json:"over25"`
	Under25 float64 `json:"under25"`
}

// YesNoOdds are decimal BTTS odds
type YesNoOdds struct {
	Yes float64 `json:"yes"`
	No  float64 `json:"no"`
}

// OddsData is the normalized odds snapshot of one bookmaker
type OddsData struct {
	MatchWinner ThreeWayOdds `json:"matchWinner"`
	OverUnder   TotalsOdds   `json:"overUnder"`
	BTTS        YesNoOdds    `json:"btts"`
	Bookmaker   string       `json:"bookmaker"`
}

// HasMatchWinner reports whether usable 1X2 odds are present
func (o *OddsData) HasMatchWinner() bool {
	return o != nil && o.MatchWinner.Home > 1 && o.MatchWinner.Draw > 1 && o.MatchWinner.Away > 1
}

// HasTotals reports whether usable over/under 2.5 odds are present
func (o *OddsData) HasTotals() bool {
	return o != nil && o.OverUnder.Over25 > 1 && o.OverUnder.Under25 > 1
}

// HasBTTS reports whether usable BTTS odds are present
func (o *OddsData) HasBTTS() bool {
	return o != nil && o.BTTS.Yes > 1 && o.BTTS.No > 1
}

// DataQuality summarises how complete the aggregated inputs are
type DataQuality struct {
	Score       int         `json:"score"`
	Reliability Reliability `json:"reliability"`
	Missing     []string    `json:"missing"`
}

// AggregatedMatchData is the immutable input snapshot of one prediction
type AggregatedMatchData struct {
	Match       Match            `json:"match"`
	HomeStats   *TeamSeasonStats `json:"homeStats,omitempty"`
	AwayStats   *TeamSeasonStats `json:"awayStats,omitempty"`
	HomeRecent  []RecentMatch    `json:"homeRecentForm"`
	AwayRecent  []RecentMatch    `json:"awayRecentForm"`
	HeadToHead  *H2HData         `json:"headToHead,omitempty"`
	Standings   *StandingsData   `json:"standings,omitempty"`
	Odds        *OddsData        `json:"odds,omitempty"`
	DataQuality DataQuality      `json:"dataQuality"`
}

// PredictionFactor is a human-readable explanation unit
type PredictionFactor struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Impact      Impact  `json:"impact"`
	Team        string  `json:"team,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
}

// MatchOutcomePrediction is the 1X2 market
type MatchOutcomePrediction struct {
	HomeWin    float64            `json:"homeWin"`
	Draw       float64            `json:"draw"`
	AwayWin    float64            `json:"awayWin"`
	Predicted  Outcome            `json:"predicted"`
	Confidence int                `json:"confidence"`
	Factors    []PredictionFactor `json:"factors"`
}

// BTTSPrediction is the both-teams-to-score market
type BTTSPrediction struct {
	Yes        float64            `json:"yes"`
	No         float64            `json:"no"`
	Predicted  string             `json:"predicted"` // Yes or No
	Confidence int                `json:"confidence"`
	Factors    []PredictionFactor `json:"factors"`
}

// OverUnderLine holds the probabilities of one goal line
type OverUnderLine struct {
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
}

// Goal lines offered by the over/under market
var GoalLines = []string{"0.5", "1.5", "2.5", "3.5"}

// OverUnderPrediction is the goal totals market
type OverUnderPrediction struct {
	Lines         map[string]OverUnderLine `json:"lines"`
	ExpectedGoals float64                  `json:"expectedGoals"`
	Recommended   string                   `json:"recommended"`
	Confidence    int                      `json:"confidence"`
	Factors       []PredictionFactor       `json:"factors"`
}

// ScoreProbability is one exact scoreline
type ScoreProbability struct {
	Score       string  `json:"score"`
	HomeGoals   int     `json:"homeGoals"`
	AwayGoals   int     `json:"awayGoals"`
	Probability float64 `json:"probability"`
}

// CorrectScorePrediction is the exact score market
type CorrectScorePrediction struct {
	TopPredictions []ScoreProbability `json:"topPredictions"`
	MostLikely     string             `json:"mostLikely"`
	Confidence     int                `json:"confidence"`
	Factors        []PredictionFactor `json:"factors"`
}

// HTFTProbability is one half-time/full-time combination, e.g. "1/X"
type HTFTProbability struct {
	Combination string  `json:"combination"`
	Probability float64 `json:"probability"`
}

// HTFTPrediction is the half-time/full-time market
type HTFTPrediction struct {
	Predictions []HTFTProbability  `json:"predictions"`
	MostLikely  string             `json:"mostLikely"`
	Confidence  int                `json:"confidence"`
	Factors     []PredictionFactor `json:"factors"`
}

// HomeAway is a per-side continuous value
type HomeAway struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// HomeAwayInt is a per-side count
type HomeAwayInt struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// StatsPrediction is the descriptive match statistics estimate
type StatsPrediction struct {
	ExpectedGoals HomeAway           `json:"expectedGoals"`
	Possession    HomeAway           `json:"possession"`
	TotalShots    HomeAwayInt        `json:"totalShots"`
	ShotsOnTarget HomeAwayInt        `json:"shotsOnTarget"`
	Corners       HomeAwayInt        `json:"corners"`
	Confidence    int                `json:"confidence"`
	Factors       []PredictionFactor `json:"factors"`
}

// CompletePrediction is the immutable result of one prediction request
type CompletePrediction struct {
	ID              string                 `json:"id"`
	MatchID         string                 `json:"matchId"`
	GeneratedAt     time.Time              `json:"generatedAt"`
	ExpiresAt       time.Time              `json:"expiresAt"`
	Source          PredictionSource       `json:"source"`
	MatchOutcome    MatchOutcomePrediction `json:"matchOutcome"`
	BTTS            BTTSPrediction         `json:"btts"`
	OverUnder       OverUnderPrediction    `json:"overUnder"`
	CorrectScore    CorrectScorePrediction `json:"correctScore"`
	HTFT            HTFTPrediction         `json:"htft"`
	Stats           StatsPrediction        `json:"stats"`
	Confidence      ConfidenceLevel        `json:"confidence"`
	ConfidenceScore int                    `json:"confidenceScore"`
	AIAnalysis      string                 `json:"aiAnalysis"`
	Factors         []PredictionFactor     `json:"factors"`
	DataQuality     DataQuality            `json:"dataQuality"`
	Odds            *OddsData              `json:"odds,omitempty"`
}

// CachedPrediction wraps a prediction with its cache lifetime
type CachedPrediction struct {
	Prediction *CompletePrediction `json:"prediction"`
	CreatedAt  time.Time           `json:"createdAt"`
	ExpiresAt  time.Time           `json:"expiresAt"`
}
