// Package app wires configuration, storage, providers and the prediction
// engine together for the command-line binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Alias1177/FootballPredictor/internal/aggregator"
	"github.com/Alias1177/FootballPredictor/internal/api/apisports"
	"github.com/Alias1177/FootballPredictor/internal/api/openai"
	"github.com/Alias1177/FootballPredictor/internal/backtest"
	"github.com/Alias1177/FootballPredictor/internal/cache"
	"github.com/Alias1177/FootballPredictor/internal/config"
	"github.com/Alias1177/FootballPredictor/internal/database"
	"github.com/Alias1177/FootballPredictor/internal/estimator"
	"github.com/Alias1177/FootballPredictor/internal/llm"
	"github.com/Alias1177/FootballPredictor/internal/metrics"
	"github.com/Alias1177/FootballPredictor/internal/orchestrator"
	"github.com/Alias1177/FootballPredictor/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// App owns every long-lived dependency of a run
type App struct {
	Config   *config.Config
	DB       *database.DB
	Provider *apisports.Client
	Engine   *orchestrator.Engine
	Backtest *backtest.Engine
	Metrics  *metrics.PredictorMetrics

	cache  cache.Cache
	redis  *redis.Client
	cancel context.CancelFunc
}

// New connects storage and cache and builds the prediction engine
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.DBDriver, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	a := &App{
		Config:  cfg,
		DB:      db,
		Metrics: metrics.NewPredictorMetrics(),
		cancel:  cancel,
	}

	a.cache, err = a.openCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Provider = apisports.NewClient(apisports.ClientOptions{
		APIKey:         cfg.APISportsKey,
		BaseURL:        cfg.APISportsBaseURL,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.APIRequestsPerSec,
	})

	agg := aggregator.New(db, a.Provider, cfg.DefaultSeason, a.Metrics)

	opts := orchestrator.DefaultOptions()
	opts.Estimators.Weights = estimator.Weights{
		Poisson:   cfg.WeightPoisson,
		Form:      cfg.WeightForm,
		Standings: cfg.WeightStandings,
		H2H:       cfg.WeightH2H,
		Odds:      cfg.WeightOdds,
	}
	opts.AITimeout = time.Duration(cfg.AITimeout) * time.Second

	a.Engine = orchestrator.New(agg, newLLM(cfg, a.Metrics), a.cache, db, opts, a.Metrics)
	a.Backtest = backtest.New(a.Engine, db, a.Metrics)

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("cache", cfg.CacheBackend).
		Bool("ai_enabled", cfg.AIEnabled).
		Str("ai_provider", cfg.AIProvider).
		Int("season", cfg.DefaultSeason).
		Msg("Prediction engine ready")

	return a, nil
}

func openDB(cfg *config.Config) (*database.DB, error) {
	if cfg.DBDriver == config.DriverPostgres {
		return database.New(database.ConnectionParams{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
	}
	return database.NewSQLite(cfg.SQLitePath)
}

func (a *App) openCache(ctx context.Context) (cache.Cache, error) {
	if a.Config.CacheBackend == config.CacheRedis {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.Config.RedisAddr,
			Password: a.Config.RedisPassword,
			DB:       a.Config.RedisDB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connecting to redis at %s: %w", a.Config.RedisAddr, err)
		}
		return cache.NewRedis(a.redis), nil
	}

	memory := cache.NewMemory()
	if a.Config.CacheSweepInterval > 0 {
		memory.StartSweeper(ctx, time.Duration(a.Config.CacheSweepInterval)*time.Second)
	}
	return memory, nil
}

// newLLM returns an estimator that reports Unavailable when AI is disabled
// or no key is configured
func newLLM(cfg *config.Config, m *metrics.PredictorMetrics) *llm.Estimator {
	key := cfg.AIAPIKey()

	var completer llm.Completer
	if cfg.AIEnabled && key != "" {
		completer = openai.NewClient(openai.ClientOptions{
			APIKey:   key,
			Provider: cfg.AIProvider,
			Model:    cfg.AIModel,
			BaseURL:  cfg.AIBaseURL,
			JSONMode: true,
		})
	}

	return llm.New(completer, llm.Options{
		Enabled:  cfg.AIEnabled,
		Provider: cfg.AIProvider,
		APIKey:   key,
	}, m)
}

// SyncMatch fetches a fixture from the provider, stores it and drops any
// prediction cached for the previous version of the match
func (a *App) SyncMatch(ctx context.Context, fixtureID int) (*models.Match, error) {
	m, err := a.Provider.Match(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	if err := a.DB.UpsertMatch(ctx, m); err != nil {
		return nil, err
	}
	if err := a.cache.Invalidate(ctx, m.ID); err != nil {
		return nil, fmt.Errorf("invalidating cached prediction of match %s: %w", m.ID, err)
	}

	log.Info().
		Str("match_id", m.ID).
		Str("home", m.HomeTeam.Name).
		Str("away", m.AwayTeam.Name).
		Time("kickoff", m.Kickoff).
		Msg("Match synced")
	return m, nil
}

// ServeMetrics exposes the Prometheus registry until ctx is cancelled
func (a *App) ServeMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Metrics.Registry(), promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}()

	log.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Metrics server error")
	}
}

// Close drains pending writes and releases connections
func (a *App) Close() {
	a.cancel()
	if a.Engine != nil {
		a.Engine.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing redis client")
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing database")
	}
}

// SetupLogging configures the global logger
func SetupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
