package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Alias1177/FootballPredictor/models"
	"github.com/redis/go-redis/v9"
)

// Redis stores predictions as JSON with a native key expiry
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing Redis client
func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
	}
}

// Key returns the Redis key of a match prediction
func Key(matchID string) string {
	return fmt.Sprintf("prediction:%s", matchID)
}

// Get returns the cached prediction, or nil when the key has expired
func (r *Redis) Get(ctx context.Context, matchID string) (*models.CompletePrediction, error) {
	data, err := r.client.Get(ctx, Key(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached prediction: %w", err)
	}

	var entry models.CachedPrediction
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling cached prediction: %w", err)
	}
	return entry.Prediction, nil
}

// Set stores a prediction under its match key for ttl
func (r *Redis) Set(ctx context.Context, matchID string, prediction *models.CompletePrediction, ttl time.Duration) error {
	now := time.Now()
	data, err := json.Marshal(models.CachedPrediction{
		Prediction: prediction,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("marshaling prediction: %w", err)
	}

	return r.client.Set(ctx, Key(matchID), data, ttl).Err()
}

// Invalidate deletes the match key
func (r *Redis) Invalidate(ctx context.Context, matchID string) error {
	return r.client.Del(ctx, Key(matchID)).Err()
}
