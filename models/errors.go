package models

import "errors"

var (
	// ErrMatchNotFound is returned when a match id is unknown
	ErrMatchNotFound = errors.New("match not found")
	// ErrNoFinishedMatches is returned when a backtest range has nothing to replay
	ErrNoFinishedMatches = errors.New("no finished matches in range")
)
