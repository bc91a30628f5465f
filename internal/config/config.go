package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string        `envconfig:"APP_ENV" default:"development" validate:"oneof=development production test"`
	DBDriver              string        `envconfig:"DB_DRIVER" default:"sqlite3" validate:"required"`
	DBPath                string        `envconfig:"DB_PATH" default:":memory:" validate:"required"`
	RedisAddr             string        `envconfig:"REDIS_ADDR" default:"localhost:6379" validate:"hostname_port"`
	CacheEnabled          bool          `envconfig:"CACHE_ENABLED" default:"true"`
	CacheTTL              time.Duration `envconfig:"CACHE_TTL" default:"10m" validate:"gt=0"`
	GRPCPort              int           `envconfig:"GRPC_PORT" default:"50051" validate:"min=1,max=65535"`
	GRPCReflectionEnabled bool          `envconfig:"GRPC_REFLECTION_ENABLED" default:"false"`
	MetricsPort           int           `envconfig:"METRICS_PORT" default:"9090" validate:"min=0,max=65535,nefield=GRPCPort"`
	DefaultDatasetPath    string        `envconfig:"DEFAULT_DATASET_PATH" default:"data/college_event_feedback.xlsx"`
	WordCloudMaxWords     int           `envconfig:"WORDCLOUD_MAX_WORDS" default:"200" validate:"min=1,max=1000"`
	SentimentLexiconPath  string        `envconfig:"SENTIMENT_LEXICON_PATH"`
}

// InMemoryDB reports whether the store lives only in this process.
func (c *Config) InMemoryDB() bool {
	return c.DBPath == ":memory:" || c.DBPath == "file::memory:?cache=shared"
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	switch cfg.AppEnv {
	case "production":
		return zap.NewProduction()
	case "test":
		return zap.NewNop(), nil
	default:
		return zap.NewDevelopment()
	}
}
