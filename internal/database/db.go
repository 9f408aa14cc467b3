package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB represents a database connection
type DB struct {
	*sql.DB
	driver string
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new PostgreSQL connection
func New(params ConnectionParams) (*DB, error) {
	// Create PostgreSQL connection string
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open(DriverPostgres, connStr)
	if err != nil {
		return nil, err
	}

	return initialize(db, DriverPostgres)
}

// NewSQLite opens (or creates) a SQLite database file
func NewSQLite(path string) (*DB, error) {
	db, err := sql.Open(DriverSQLite, path+"?_time_format=sqlite")
	if err != nil {
		return nil, err
	}
	// A single connection keeps writes serialized
	db.SetMaxOpenConns(1)

	return initialize(db, DriverSQLite)
}

func initialize(db *sql.DB, driver string) (*DB, error) {
	// Check connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db, driver: driver}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			external_id INTEGER NOT NULL DEFAULT 0,
			league_id INTEGER NOT NULL DEFAULT 0,
			league TEXT NOT NULL DEFAULT '',
			season INTEGER NOT NULL DEFAULT 0,
			kickoff TIMESTAMP NOT NULL,
			venue TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'NS',
			home_team_id TEXT NOT NULL,
			home_team_external_id INTEGER NOT NULL DEFAULT 0,
			home_team_name TEXT NOT NULL,
			away_team_id TEXT NOT NULL,
			away_team_external_id INTEGER NOT NULL DEFAULT 0,
			away_team_name TEXT NOT NULL,
			home_goals INTEGER,
			away_goals INTEGER,
			ht_home_goals INTEGER,
			ht_away_goals INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_kickoff ON matches (kickoff)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			match_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			source TEXT NOT NULL,
			ai_model TEXT NOT NULL,
			home_win DOUBLE PRECISION NOT NULL,
			draw DOUBLE PRECISION NOT NULL,
			away_win DOUBLE PRECISION NOT NULL,
			predicted_outcome TEXT NOT NULL,
			btts_yes DOUBLE PRECISION NOT NULL,
			btts_no DOUBLE PRECISION NOT NULL,
			over25 DOUBLE PRECISION NOT NULL,
			under25 DOUBLE PRECISION NOT NULL,
			expected_goals DOUBLE PRECISION NOT NULL,
			recommended_total TEXT NOT NULL,
			most_likely_score TEXT NOT NULL,
			confidence TEXT NOT NULL,
			confidence_score INTEGER NOT NULL,
			data_quality INTEGER NOT NULL,
			reasoning TEXT NOT NULL,
			factors TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_match ON predictions (match_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

var placeholder = regexp.MustCompile(`\$(\d+)`)

// rebind rewrites $N placeholders for drivers that expect ?N
func (db *DB) rebind(query string) string {
	if db.driver != DriverSQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?$1")
}

func (db *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.QueryRowContext(ctx, db.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.QueryContext(ctx, db.rebind(query), args...)
}
