package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., EMBEDDING_ENDPOINT_API_KEY).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.skillcompass
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/skillcompass.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// EmbeddingEndpoint configures the embedding AI service.
	EmbeddingEndpoint EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`

	// GenerationPrimary configures the primary generation AI service.
	GenerationPrimary EndpointEnv `envconfig:"GENERATION_PRIMARY"`

	// GenerationSecondary configures the secondary generation AI service.
	GenerationSecondary EndpointEnv `envconfig:"GENERATION_SECONDARY"`

	// Cache configures the recommendation cache layer.
	Cache CacheEnv `envconfig:"CACHE"`

	// Ranking configures the similarity ranker.
	Ranking RankingEnv `envconfig:"RANKING"`
}

// EndpointEnv holds environment configuration for an AI endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier.
	// Env: *_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Temperature is the sampling temperature.
	// Env: *_TEMPERATURE (default: 0)
	Temperature float64 `envconfig:"TEMPERATURE" default:"0"`

	// Timeout is the request timeout in seconds.
	// Env: *_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: *_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: *_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: *_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`

	// MaxTokens is the maximum token limit.
	// Env: *_MAX_TOKENS (default: 4096)
	MaxTokens int `envconfig:"MAX_TOKENS" default:"4096"`
}

// CacheEnv holds environment configuration for the cache layer.
type CacheEnv struct {
	// RedisURL selects the Redis backend when set; otherwise the
	// in-process cache is used.
	// Env: CACHE_REDIS_URL
	RedisURL string `envconfig:"REDIS_URL"`

	// ProfileVectorTTLHours is the user vector TTL in hours.
	// Env: CACHE_PROFILE_VECTOR_TTL_HOURS (default: 24)
	ProfileVectorTTLHours float64 `envconfig:"PROFILE_VECTOR_TTL_HOURS" default:"24"`

	// ResultTTLDays is the recommendation result TTL in days.
	// Env: CACHE_RESULT_TTL_DAYS (default: 30)
	ResultTTLDays float64 `envconfig:"RESULT_TTL_DAYS" default:"30"`
}

// RankingEnv holds environment configuration for the ranker.
type RankingEnv struct {
	// TopN is the shortlist size per ranking pass.
	// Env: RANKING_TOP_N (default: 20)
	TopN int `envconfig:"TOP_N" default:"20"`

	// AbilityThreshold is the similarity threshold for the ability filter.
	// Env: RANKING_ABILITY_THRESHOLD (default: 0.75)
	AbilityThreshold float64 `envconfig:"ABILITY_THRESHOLD" default:"0.75"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "SKILLCOMPASS" would require SKILLCOMPASS_DB_URL
// instead of DB_URL.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = cfg.Apply(WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = cfg.Apply(WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = cfg.Apply(WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = cfg.Apply(WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.APIKeys != "" {
		cfg = cfg.Apply(WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	}

	if e.EmbeddingEndpoint.IsConfigured() {
		cfg = cfg.Apply(WithEmbeddingEndpoint(e.EmbeddingEndpoint.ToEndpoint()))
	}
	if e.GenerationPrimary.IsConfigured() {
		cfg = cfg.Apply(WithGenerationPrimary(e.GenerationPrimary.ToEndpoint()))
	}
	if e.GenerationSecondary.IsConfigured() {
		cfg = cfg.Apply(WithGenerationSecondary(e.GenerationSecondary.ToEndpoint()))
	}

	cfg = cfg.Apply(WithCacheConfig(e.Cache.ToCacheConfig()))
	cfg = cfg.Apply(WithRankingConfig(e.Ranking.ToRankingConfig()))

	return cfg
}

// IsConfigured returns true if the endpoint has an API key configured.
func (e EndpointEnv) IsConfigured() bool {
	return e.APIKey != ""
}

// ToEndpoint converts EndpointEnv to Endpoint.
func (e EndpointEnv) ToEndpoint() Endpoint {
	opts := []EndpointOption{
		WithTemperature(e.Temperature),
		WithTimeout(time.Duration(e.Timeout * float64(time.Second))),
		WithMaxRetries(e.MaxRetries),
		WithInitialDelay(time.Duration(e.InitialDelay * float64(time.Second))),
		WithBackoffFactor(e.BackoffFactor),
		WithMaxTokens(e.MaxTokens),
	}

	if e.BaseURL != "" {
		opts = append(opts, WithBaseURL(e.BaseURL))
	}
	if e.Model != "" {
		opts = append(opts, WithModel(e.Model))
	}
	if e.APIKey != "" {
		opts = append(opts, WithAPIKey(e.APIKey))
	}

	return NewEndpointWithOptions(opts...)
}

// ToCacheConfig converts CacheEnv to CacheConfig.
func (c CacheEnv) ToCacheConfig() CacheConfig {
	opts := []CacheConfigOption{
		WithProfileVectorTTL(time.Duration(c.ProfileVectorTTLHours * float64(time.Hour))),
		WithResultTTL(time.Duration(c.ResultTTLDays * 24 * float64(time.Hour))),
	}
	if c.RedisURL != "" {
		opts = append(opts, WithRedisURL(c.RedisURL))
	}
	return NewCacheConfigWithOptions(opts...)
}

// ToRankingConfig converts RankingEnv to RankingConfig.
func (r RankingEnv) ToRankingConfig() RankingConfig {
	return NewRankingConfig().
		WithTopN(r.TopN).
		WithAbilityThreshold(r.AbilityThreshold)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
