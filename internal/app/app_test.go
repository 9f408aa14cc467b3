package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Alias1177/FootballPredictor/internal/config"
	"github.com/Alias1177/FootballPredictor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureBody = `{"errors":[],"results":1,"response":[{
	"fixture":{"id":1035037,"date":"2030-03-02T15:00:00+00:00","venue":{"name":"Emirates Stadium"},"status":{"short":"NS"}},
	"league":{"id":39,"name":"Premier League","season":2029},
	"teams":{"home":{"id":42,"name":"Arsenal"},"away":{"id":49,"name":"Chelsea"}},
	"goals":{"home":null,"away":null},
	"score":{"halftime":{"home":null,"away":null}}}]}`

// newProvider serves the fixture lookup and nothing else, so every other
// source of the aggregation fails
func newProvider(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fixtures" && r.URL.Query().Get("id") != "" {
			w.Write([]byte(fixtureBody))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	return &config.Config{
		APISportsKey:      "key",
		APISportsBaseURL:  baseURL,
		APIRequestsPerSec: 100,
		RequestTimeout:    2,
		DefaultSeason:     2029,
		AIProvider:        config.ProviderOpenAI,
		DBDriver:          config.DriverSQLite,
		SQLitePath:        filepath.Join(t.TempDir(), "predictor.db"),
		CacheBackend:      config.CacheMemory,
		WeightPoisson:     0.35,
		WeightForm:        0.20,
		WeightStandings:   0.15,
		WeightH2H:         0.10,
		WeightOdds:        0.20,
	}
}

func TestSyncAndPredict(t *testing.T) {
	srv := newProvider(t)
	ctx := context.Background()

	a, err := New(ctx, testConfig(t, srv.URL))
	require.NoError(t, err)

	m, err := a.SyncMatch(ctx, 1035037)
	require.NoError(t, err)
	assert.Equal(t, "1035037", m.ID)

	stored, err := a.DB.GetMatch(ctx, "1035037")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", stored.HomeTeam.Name)

	p, err := a.Engine.GetPrediction(ctx, m.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.SourceStatistical, p.Source)
	assert.Equal(t, models.ConfidenceLow, p.Confidence)
	assert.InDelta(t, 100, p.MatchOutcome.HomeWin+p.MatchOutcome.Draw+p.MatchOutcome.AwayWin, 0.2)

	cached, err := a.Engine.GetPrediction(ctx, m.ID, false)
	require.NoError(t, err)
	assert.Same(t, p, cached)

	a.Close()
}

func TestPredictionIsPersisted(t *testing.T) {
	srv := newProvider(t)
	ctx := context.Background()
	cfg := testConfig(t, srv.URL)

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	_, err = a.SyncMatch(ctx, 1035037)
	require.NoError(t, err)
	p, err := a.Engine.GetPrediction(ctx, "1035037", true)
	require.NoError(t, err)
	a.Close()

	reopened, err := New(ctx, cfg)
	require.NoError(t, err)
	defer reopened.Close()

	record, err := reopened.DB.LatestPrediction(ctx, "1035037")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, p.ID, record.ID)
}

func TestResyncInvalidatesCachedPrediction(t *testing.T) {
	srv := newProvider(t)
	ctx := context.Background()

	a, err := New(ctx, testConfig(t, srv.URL))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.SyncMatch(ctx, 1035037)
	require.NoError(t, err)
	first, err := a.Engine.GetPrediction(ctx, "1035037", false)
	require.NoError(t, err)

	_, err = a.SyncMatch(ctx, 1035037)
	require.NoError(t, err)
	second, err := a.Engine.GetPrediction(ctx, "1035037", false)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSyncUnknownMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[],"results":0,"response":[]}`))
	}))
	defer srv.Close()

	a, err := New(context.Background(), testConfig(t, srv.URL))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.SyncMatch(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestNewFailsOnUnreachableRedis(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:0")
	cfg.CacheBackend = config.CacheRedis
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
