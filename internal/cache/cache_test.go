package cache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Alias1177/FootballPredictor/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestMemory() (*Memory, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)}
	m := NewMemory()
	m.now = clock.Now
	return m, clock
}

func TestCalculateTTL(t *testing.T) {
	now := time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		kickoff  time.Time
		expected time.Duration
	}{
		{"already started", now.Add(-time.Minute), 2 * time.Minute},
		{"kickoff now", now, 2 * time.Minute},
		{"within two hours", now.Add(90 * time.Minute), 5 * time.Minute},
		{"exactly two hours", now.Add(2 * time.Hour), 5 * time.Minute},
		{"within six hours", now.Add(5 * time.Hour), 15 * time.Minute},
		{"within a day", now.Add(20 * time.Hour), 30 * time.Minute},
		{"next week", now.Add(7 * 24 * time.Hour), 60 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateTTL(tt.kickoff, now))
		})
	}
}

func TestCalculateTTLMonotonic(t *testing.T) {
	now := time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)
	prev := time.Duration(0)
	for h := 0; h <= 72; h++ {
		ttl := CalculateTTL(now.Add(time.Duration(h)*time.Hour+time.Minute), now)
		assert.GreaterOrEqual(t, ttl, prev, "hour %d", h)
		prev = ttl
	}
}

func TestMemoryGetReturnsSameObject(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()
	p := &models.CompletePrediction{ID: "p1", MatchID: "m1"}

	require.NoError(t, m.Set(ctx, "m1", p, time.Minute))

	first, err := m.Get(ctx, "m1")
	require.NoError(t, err)
	second, err := m.Get(ctx, "m1")
	require.NoError(t, err)

	assert.Same(t, p, first)
	assert.Same(t, first, second)
}

func TestMemoryExpiry(t *testing.T) {
	m, clock := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "m1", &models.CompletePrediction{ID: "p1"}, 5*time.Minute))

	clock.Advance(4 * time.Minute)
	got, _ := m.Get(ctx, "m1")
	assert.NotNil(t, got)

	clock.Advance(time.Minute)
	got, _ = m.Get(ctx, "m1")
	assert.Nil(t, got)
	assert.Equal(t, 0, m.Stats().Size)
}

func TestMemoryInvalidateAndClear(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("m%d", i), &models.CompletePrediction{}, time.Minute))
	}

	require.NoError(t, m.Invalidate(ctx, "m0"))
	got, _ := m.Get(ctx, "m0")
	assert.Nil(t, got)
	assert.Equal(t, 2, m.Stats().Size)

	m.Clear()
	assert.Equal(t, 0, m.Stats().Size)
}

func TestMemoryCleanup(t *testing.T) {
	m, clock := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "short", &models.CompletePrediction{}, time.Minute))
	require.NoError(t, m.Set(ctx, "long", &models.CompletePrediction{}, time.Hour))

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, m.Cleanup())

	stats := m.Stats()
	require.Len(t, stats.Entries, 1)
	assert.Equal(t, "long", stats.Entries[0].MatchID)
	assert.Equal(t, 58*time.Minute, stats.Entries[0].ExpiresIn)
}

func TestMemorySweeper(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, m.Set(ctx, "m1", &models.CompletePrediction{}, time.Millisecond))
	m.StartSweeper(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return m.Stats().Size == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("m%d", i%4)
			_ = m.Set(ctx, id, &models.CompletePrediction{ID: id}, time.Minute)
			_, _ = m.Get(ctx, id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, m.Stats().Size)
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "prediction:abc", Key("abc"))
}

// TestRedisRoundTrip needs a reachable server in REDIS_ADDR
func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	r := NewRedis(client)
	matchID := fmt.Sprintf("test-%d", time.Now().UnixNano())

	p := &models.CompletePrediction{ID: "p1", MatchID: matchID, ConfidenceScore: 64}
	require.NoError(t, r.Set(ctx, matchID, p, time.Minute))

	got, err := r.Get(ctx, matchID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, 64, got.ConfidenceScore)

	require.NoError(t, r.Invalidate(ctx, matchID))
	got, err = r.Get(ctx, matchID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
