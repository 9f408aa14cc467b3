package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Alias1177/FootballPredictor/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Memory is an in-process prediction cache. Expired entries are dropped
// lazily on read and by Cleanup.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*models.CachedPrediction
	now     func() time.Time
	logger  zerolog.Logger
}

// EntryStats describes one cached entry
type EntryStats struct {
	MatchID   string        `json:"matchId"`
	ExpiresIn time.Duration `json:"expiresIn"`
}

// Stats is a point-in-time view of the cache
type Stats struct {
	Size    int          `json:"size"`
	Entries []EntryStats `json:"entries"`
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*models.CachedPrediction),
		now:     time.Now,
		logger:  log.With().Str("component", "prediction_cache").Logger(),
	}
}

// Get returns the cached prediction, or nil when absent or expired
func (m *Memory) Get(_ context.Context, matchID string) (*models.CompletePrediction, error) {
	m.mu.RLock()
	entry, ok := m.entries[matchID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if !m.now().Before(entry.ExpiresAt) {
		m.mu.Lock()
		// Another writer may have replaced the entry meanwhile
		if current, ok := m.entries[matchID]; ok && current == entry {
			delete(m.entries, matchID)
		}
		m.mu.Unlock()
		return nil, nil
	}
	return entry.Prediction, nil
}

// Set stores a prediction for ttl. The last writer wins.
func (m *Memory) Set(_ context.Context, matchID string, prediction *models.CompletePrediction, ttl time.Duration) error {
	now := m.now()
	m.mu.Lock()
	m.entries[matchID] = &models.CachedPrediction{
		Prediction: prediction,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	m.mu.Unlock()
	return nil
}

// Invalidate removes a match from the cache
func (m *Memory) Invalidate(_ context.Context, matchID string) error {
	m.mu.Lock()
	delete(m.entries, matchID)
	m.mu.Unlock()
	return nil
}

// Cleanup removes every expired entry and returns how many were dropped
func (m *Memory) Cleanup() int {
	now := m.now()
	removed := 0

	m.mu.Lock()
	for id, entry := range m.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(m.entries, id)
			removed++
		}
	}
	m.mu.Unlock()

	return removed
}

// Clear empties the cache
func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]*models.CachedPrediction)
	m.mu.Unlock()
}

// Stats reports the cache size and the remaining lifetime of each entry
func (m *Memory) Stats() Stats {
	now := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{Size: len(m.entries), Entries: make([]EntryStats, 0, len(m.entries))}
	for id, entry := range m.entries {
		stats.Entries = append(stats.Entries, EntryStats{MatchID: id, ExpiresIn: entry.ExpiresAt.Sub(now)})
	}
	return stats
}

// StartSweeper runs Cleanup every interval until ctx is done
func (m *Memory) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := m.Cleanup(); removed > 0 {
					m.logger.Debug().Int("removed", removed).Msg("Swept expired predictions")
				}
			}
		}
	}()
}
