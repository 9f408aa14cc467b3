// Package cache memoizes complete predictions per match with a lifetime that
// shrinks as kickoff approaches.
package cache

import (
	"context"
	"time"

	"github.com/Alias1177/FootballPredictor/models"
)

// Cache stores predictions keyed by match id. A miss is (nil, nil).
type Cache interface {
	Get(ctx context.Context, matchID string) (*models.CompletePrediction, error)
	Set(ctx context.Context, matchID string, prediction *models.CompletePrediction, ttl time.Duration) error
	Invalidate(ctx context.Context, matchID string) error
}

// TTL tiers by time to kickoff
const (
	StartedTTL  = 2 * time.Minute
	ImminentTTL = 5 * time.Minute
	SoonTTL     = 15 * time.Minute
	TodayTTL    = 30 * time.Minute
	DefaultTTL  = 60 * time.Minute
)

// CalculateTTL returns how long a prediction stays fresh. The closer the
// kickoff, the shorter the lifetime.
func CalculateTTL(kickoff, now time.Time) time.Duration {
	untilKickoff := kickoff.Sub(now)

	switch {
	case untilKickoff <= 0:
		return StartedTTL
	case untilKickoff <= 2*time.Hour:
		return ImminentTTL
	case untilKickoff <= 6*time.Hour:
		return SoonTTL
	case untilKickoff <= 24*time.Hour:
		return TodayTTL
	default:
		return DefaultTTL
	}
}
