package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Alias1177/FootballPredictor/models"
)

const matchColumns = `
	id, external_id, league_id, league, season, kickoff, venue, status,
	home_team_id, home_team_external_id, home_team_name,
	away_team_id, away_team_external_id, away_team_name,
	home_goals, away_goals, ht_home_goals, ht_away_goals`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var m models.Match
	var homeGoals, awayGoals, htHome, htAway sql.NullInt64

	if err := row.Scan(
		&m.ID, &m.ExternalID, &m.LeagueID, &m.League, &m.Season, &m.Kickoff, &m.Venue, &m.Status,
		&m.HomeTeam.ID, &m.HomeTeam.ExternalID, &m.HomeTeam.Name,
		&m.AwayTeam.ID, &m.AwayTeam.ExternalID, &m.AwayTeam.Name,
		&homeGoals, &awayGoals, &htHome, &htAway,
	); err != nil {
		return nil, err
	}

	m.HomeGoals = nullableInt(homeGoals)
	m.AwayGoals = nullableInt(awayGoals)
	m.HTHomeGoals = nullableInt(htHome)
	m.HTAwayGoals = nullableInt(htAway)
	m.Kickoff = m.Kickoff.UTC()
	return &m, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// GetMatch retrieves a match by its internal id
func (db *DB) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	row := db.queryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)

	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrMatchNotFound
		}
		return nil, fmt.Errorf("querying match: %w", err)
	}
	return m, nil
}

// UpsertMatch inserts a match or replaces the stored copy
func (db *DB) UpsertMatch(ctx context.Context, m *models.Match) error {
	_, err := db.exec(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id)
		DO UPDATE SET
			external_id = EXCLUDED.external_id,
			league_id = EXCLUDED.league_id,
			league = EXCLUDED.league,
			season = EXCLUDED.season,
			kickoff = EXCLUDED.kickoff,
			venue = EXCLUDED.venue,
			status = EXCLUDED.status,
			home_team_id = EXCLUDED.home_team_id,
			home_team_external_id = EXCLUDED.home_team_external_id,
			home_team_name = EXCLUDED.home_team_name,
			away_team_id = EXCLUDED.away_team_id,
			away_team_external_id = EXCLUDED.away_team_external_id,
			away_team_name = EXCLUDED.away_team_name,
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			ht_home_goals = EXCLUDED.ht_home_goals,
			ht_away_goals = EXCLUDED.ht_away_goals
	`,
		m.ID, m.ExternalID, m.LeagueID, m.League, m.Season, m.Kickoff.UTC(), m.Venue, m.Status,
		m.HomeTeam.ID, m.HomeTeam.ExternalID, m.HomeTeam.Name,
		m.AwayTeam.ID, m.AwayTeam.ExternalID, m.AwayTeam.Name,
		m.HomeGoals, m.AwayGoals, m.HTHomeGoals, m.HTAwayGoals)

	if err != nil {
		return fmt.Errorf("upserting match %s: %w", m.ID, err)
	}
	return nil
}

// FinishedMatches returns matches with a final score kicked off in [from, to],
// most recent first. A zero leagueID matches every league.
func (db *DB) FinishedMatches(ctx context.Context, from, to time.Time, leagueID, limit int) ([]models.Match, error) {
	rows, err := db.query(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE home_goals IS NOT NULL AND away_goals IS NOT NULL
			AND kickoff >= $1 AND kickoff <= $2
			AND ($3 = 0 OR league_id = $3)
		ORDER BY kickoff DESC
		LIMIT $4
	`, from.UTC(), to.UTC(), leagueID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying finished matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}
