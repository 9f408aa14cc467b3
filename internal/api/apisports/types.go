package apisports

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Alias1177/FootballPredictor/models"
)

// envelope is the common API-Football v3 response wrapper
type envelope struct {
	Get      string          `json:"get"`
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

// hasErrors reports a non-empty errors field, which the API sends either as
// an array or as an object
func (e *envelope) hasErrors() bool {
	trimmed := bytes.TrimSpace(e.Errors)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("[]")) && !bytes.Equal(trimmed, []byte("{}")) &&
		!bytes.Equal(trimmed, []byte("null"))
}

type split struct {
	Home  *int `json:"home"`
	Away  *int `json:"away"`
	Total *int `json:"total"`
}

func (s split) toModel() models.SplitInt {
	return models.SplitInt{Home: deref(s.Home), Away: deref(s.Away), Total: deref(s.Total)}
}

type averageSplit struct {
	Home  string `json:"home"`
	Away  string `json:"away"`
	Total string `json:"total"`
}

func (s averageSplit) toModel() models.SplitFloat {
	return models.SplitFloat{Home: parseFloat(s.Home), Away: parseFloat(s.Away), Total: parseFloat(s.Total)}
}

type goalsBlock struct {
	Total   split        `json:"total"`
	Average averageSplit `json:"average"`
}

type teamStatistics struct {
	Form     string `json:"form"`
	Fixtures struct {
		Played split `json:"played"`
		Wins   split `json:"wins"`
		Draws  split `json:"draws"`
		Loses  split `json:"loses"`
	} `json:"fixtures"`
	Goals struct {
		For     goalsBlock `json:"for"`
		Against goalsBlock `json:"against"`
	} `json:"goals"`
	CleanSheet    split `json:"clean_sheet"`
	FailedToScore split `json:"failed_to_score"`
}

func (s *teamStatistics) toModel() *models.TeamSeasonStats {
	return &models.TeamSeasonStats{
		Form:            s.Form,
		Played:          s.Fixtures.Played.toModel(),
		Wins:            s.Fixtures.Wins.toModel(),
		Draws:           s.Fixtures.Draws.toModel(),
		Losses:          s.Fixtures.Loses.toModel(),
		GoalsFor:        s.Goals.For.Total.toModel(),
		GoalsAgainst:    s.Goals.Against.Total.toModel(),
		GoalsForAvg:     s.Goals.For.Average.toModel(),
		GoalsAgainstAvg: s.Goals.Against.Average.toModel(),
		CleanSheets:     s.CleanSheet.toModel(),
		FailedToScore:   s.FailedToScore.toModel(),
	}
}

type teamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type scorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int       `json:"id"`
		Date   time.Time `json:"date"`
		Venue  struct {
			Name string `json:"name"`
		} `json:"venue"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Season int    `json:"season"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Goals scorePair `json:"goals"`
	Score struct {
		Halftime scorePair `json:"halftime"`
	} `json:"score"`
}

func (f *fixtureItem) toModel() models.Fixture {
	return models.Fixture{
		ID:         f.Fixture.ID,
		Date:       f.Fixture.Date,
		Status:     f.Fixture.Status.Short,
		HomeTeamID: f.Teams.Home.ID,
		AwayTeamID: f.Teams.Away.ID,
		HomeTeam:   f.Teams.Home.Name,
		AwayTeam:   f.Teams.Away.Name,
		HomeGoals:  f.Goals.Home,
		AwayGoals:  f.Goals.Away,
	}
}

// toMatch keys the match and its teams by their API-Football ids
func (f *fixtureItem) toMatch() *models.Match {
	m := &models.Match{
		ID:         strconv.Itoa(f.Fixture.ID),
		ExternalID: f.Fixture.ID,
		LeagueID:   f.League.ID,
		League:     f.League.Name,
		Season:     f.League.Season,
		Kickoff:    f.Fixture.Date,
		Venue:      f.Fixture.Venue.Name,
		Status:     f.Fixture.Status.Short,
		HomeTeam:   models.TeamInfo{ID: strconv.Itoa(f.Teams.Home.ID), ExternalID: f.Teams.Home.ID, Name: f.Teams.Home.Name},
		AwayTeam:   models.TeamInfo{ID: strconv.Itoa(f.Teams.Away.ID), ExternalID: f.Teams.Away.ID, Name: f.Teams.Away.Name},
	}
	if models.IsFinishedStatus(m.Status) {
		m.HomeGoals, m.AwayGoals = f.Goals.Home, f.Goals.Away
		m.HTHomeGoals, m.HTAwayGoals = f.Score.Halftime.Home, f.Score.Halftime.Away
	}
	return m
}

type standingsItem struct {
	League struct {
		ID        int `json:"id"`
		Standings [][]struct {
			Rank      int     `json:"rank"`
			Team      teamRef `json:"team"`
			Points    int     `json:"points"`
			GoalsDiff int     `json:"goalsDiff"`
		} `json:"standings"`
	} `json:"league"`
}

type oddsItem struct {
	Fixture struct {
		ID int `json:"id"`
	} `json:"fixture"`
	Bookmakers []struct {
		Name string `json:"name"`
		Bets []struct {
			Name   string `json:"name"`
			Values []struct {
				Value json.RawMessage `json:"value"`
				Odd   string          `json:"odd"`
			} `json:"values"`
		} `json:"bets"`
	} `json:"bookmakers"`
}

func (o *oddsItem) toModel() *models.FixtureOdds {
	out := &models.FixtureOdds{FixtureID: o.Fixture.ID}
	for _, bm := range o.Bookmakers {
		bookmaker := models.Bookmaker{Name: bm.Name}
		for _, bet := range bm.Bets {
			b := models.Bet{Name: bet.Name}
			for _, v := range bet.Values {
				b.Values = append(b.Values, models.OddValue{Value: rawString(v.Value), Odd: parseFloat(v.Odd)})
			}
			bookmaker.Bets = append(bookmaker.Bets, b)
		}
		out.Bookmakers = append(out.Bookmakers, bookmaker)
	}
	return out
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// rawString accepts selection labels sent either as strings or numbers
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
