package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Supported backends
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheMemory = "memory"
	CacheRedis  = "redis"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all application configuration
type Config struct {
	// Sports data provider
	APISportsKey      string
	APISportsBaseURL  string
	APIRequestsPerSec int
	RequestTimeout    int // seconds
	DefaultSeason     int

	LogLevel string

	// LLM estimator
	AIEnabled    bool
	AIProvider   string
	AIModel      string
	OpenAIAPIKey string
	GeminiAPIKey string
	AIBaseURL    string
	AITimeout    int // seconds

	// Persistence
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Prediction cache
	CacheBackend       string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	CacheSweepInterval int // seconds

	MetricsAddr string

	// Outcome blend weights
	WeightPoisson   float64
	WeightForm      float64
	WeightStandings float64
	WeightH2H       float64
	WeightOdds      float64

	BacktestLimit int
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.APISportsKey = os.Getenv("API_SPORTS_KEY")
	cfg.APISportsBaseURL = getEnvWithDefault("API_SPORTS_BASE_URL", "https://v3.football.api-sports.io")
	cfg.APIRequestsPerSec = getEnvIntWithDefault("API_REQUESTS_PER_SEC", 5)
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.DefaultSeason = getEnvIntWithDefault("DEFAULT_SEASON", SeasonFor(time.Now()))
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	cfg.AIEnabled = getEnvBoolWithDefault("AI_ENABLED", true)
	cfg.AIProvider = getEnvWithDefault("AI_PROVIDER", ProviderOpenAI)
	cfg.AIModel = os.Getenv("AI_MODEL")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.AIBaseURL = os.Getenv("AI_BASE_URL")
	cfg.AITimeout = getEnvIntWithDefault("AI_TIMEOUT", 30)

	cfg.DBDriver = getEnvWithDefault("DB_DRIVER", DriverSQLite)
	cfg.DBHost = getEnvWithDefault("DB_HOST", "localhost")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = getEnvWithDefault("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnvWithDefault("DB_NAME", "football_predictor")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")
	cfg.SQLitePath = getEnvWithDefault("SQLITE_PATH", "predictor.db")

	cfg.CacheBackend = getEnvWithDefault("CACHE_BACKEND", CacheMemory)
	cfg.RedisAddr = getEnvWithDefault("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvIntWithDefault("REDIS_DB", 0)
	cfg.CacheSweepInterval = getEnvIntWithDefault("CACHE_SWEEP_INTERVAL", 300)

	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	cfg.WeightPoisson = getEnvFloatWithDefault("WEIGHT_POISSON", 0.35)
	cfg.WeightForm = getEnvFloatWithDefault("WEIGHT_FORM", 0.20)
	cfg.WeightStandings = getEnvFloatWithDefault("WEIGHT_STANDINGS", 0.15)
	cfg.WeightH2H = getEnvFloatWithDefault("WEIGHT_H2H", 0.10)
	cfg.WeightOdds = getEnvFloatWithDefault("WEIGHT_ODDS", 0.20)

	cfg.BacktestLimit = getEnvIntWithDefault("BACKTEST_LIMIT", 50)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown backends and unusable weights
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.CacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.CacheBackend)
	}

	switch c.AIProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AIProvider)
	}

	weights := []float64{c.WeightPoisson, c.WeightForm, c.WeightStandings, c.WeightH2H, c.WeightOdds}
	var sum float64
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("outcome weights must not be negative")
		}
		sum += w
	}
	if sum == 0 {
		return fmt.Errorf("at least one outcome weight must be positive")
	}

	return nil
}

// AIAPIKey returns the key of the configured provider
func (c *Config) AIAPIKey() string {
	if c.AIProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// SeasonFor returns the European season a date falls in; seasons start in July
func SeasonFor(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year()
	}
	return t.Year() - 1
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid number, using default")
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
