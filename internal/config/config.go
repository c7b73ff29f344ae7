// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost                  = "0.0.0.0"
	DefaultPort                  = 8080
	DefaultLogLevel              = "INFO"
	DefaultEndpointTimeout       = 60 * time.Second
	DefaultEndpointMaxRetries    = 5
	DefaultEndpointInitialDelay  = 2 * time.Second
	DefaultEndpointBackoffFactor = 2.0
	DefaultEndpointMaxTokens     = 4096
	DefaultProfileVectorTTL      = 24 * time.Hour
	DefaultResultTTLDays         = 30
	DefaultRankingTopN           = 20
	DefaultAbilityThreshold      = 0.75
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Endpoint configures an AI service endpoint.
type Endpoint struct {
	baseURL       string
	model         string
	apiKey        string
	temperature   float64
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
	maxTokens     int
}

// NewEndpoint creates a new Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		timeout:       DefaultEndpointTimeout,
		maxRetries:    DefaultEndpointMaxRetries,
		initialDelay:  DefaultEndpointInitialDelay,
		backoffFactor: DefaultEndpointBackoffFactor,
		maxTokens:     DefaultEndpointMaxTokens,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Temperature returns the sampling temperature.
func (e Endpoint) Temperature() float64 { return e.temperature }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// InitialDelay returns the initial retry delay.
func (e Endpoint) InitialDelay() time.Duration { return e.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (e Endpoint) BackoffFactor() float64 { return e.backoffFactor }

// MaxTokens returns the maximum token limit.
func (e Endpoint) MaxTokens() int { return e.maxTokens }

// IsConfigured returns true if the endpoint has credentials configured.
func (e Endpoint) IsConfigured() bool {
	return e.apiKey != ""
}

// EndpointOption is a functional option for Endpoint.
type EndpointOption func(*Endpoint)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

// WithModel sets the model.
func WithModel(model string) EndpointOption {
	return func(e *Endpoint) { e.model = model }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) EndpointOption {
	return func(e *Endpoint) { e.temperature = t }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.timeout = d }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) EndpointOption {
	return func(e *Endpoint) { e.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.initialDelay = d }
}

// WithBackoffFactor sets the retry backoff multiplier.
func WithBackoffFactor(f float64) EndpointOption {
	return func(e *Endpoint) { e.backoffFactor = f }
}

// WithMaxTokens sets the maximum token limit.
func WithMaxTokens(n int) EndpointOption {
	return func(e *Endpoint) { e.maxTokens = n }
}

// NewEndpointWithOptions creates an Endpoint with functional options.
func NewEndpointWithOptions(opts ...EndpointOption) Endpoint {
	e := NewEndpoint()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// CacheConfig configures the recommendation cache layer.
type CacheConfig struct {
	redisURL         string
	profileVectorTTL time.Duration
	resultTTL        time.Duration
}

// NewCacheConfig creates a new CacheConfig with defaults.
func NewCacheConfig() CacheConfig {
	return CacheConfig{
		profileVectorTTL: DefaultProfileVectorTTL,
		resultTTL:        DefaultResultTTLDays * 24 * time.Hour,
	}
}

// RedisURL returns the Redis URL, or "" when the in-process cache is used.
func (c CacheConfig) RedisURL() string { return c.redisURL }

// ProfileVectorTTL returns how long user profile vectors stay cached.
func (c CacheConfig) ProfileVectorTTL() time.Duration { return c.profileVectorTTL }

// ResultTTL returns how long generated recommendations stay cached.
func (c CacheConfig) ResultTTL() time.Duration { return c.resultTTL }

// UsesRedis returns true when a Redis URL is configured.
func (c CacheConfig) UsesRedis() bool { return c.redisURL != "" }

// CacheConfigOption is a functional option for CacheConfig.
type CacheConfigOption func(*CacheConfig)

// WithRedisURL sets the Redis URL.
func WithRedisURL(url string) CacheConfigOption {
	return func(c *CacheConfig) { c.redisURL = url }
}

// WithProfileVectorTTL sets the profile vector TTL.
func WithProfileVectorTTL(d time.Duration) CacheConfigOption {
	return func(c *CacheConfig) { c.profileVectorTTL = d }
}

// WithResultTTL sets the recommendation result TTL.
func WithResultTTL(d time.Duration) CacheConfigOption {
	return func(c *CacheConfig) { c.resultTTL = d }
}

// NewCacheConfigWithOptions creates a CacheConfig with options.
func NewCacheConfigWithOptions(opts ...CacheConfigOption) CacheConfig {
	c := NewCacheConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// RankingConfig configures the similarity ranker.
type RankingConfig struct {
	topN             int
	abilityThreshold float64
}

// NewRankingConfig creates a new RankingConfig with defaults.
func NewRankingConfig() RankingConfig {
	return RankingConfig{
		topN:             DefaultRankingTopN,
		abilityThreshold: DefaultAbilityThreshold,
	}
}

// TopN returns the shortlist size per ranking pass.
func (r RankingConfig) TopN() int { return r.topN }

// AbilityThreshold returns the similarity threshold for the ability filter.
func (r RankingConfig) AbilityThreshold() float64 { return r.abilityThreshold }

// WithTopN returns a new config with the given shortlist size.
func (r RankingConfig) WithTopN(n int) RankingConfig {
	if n > 0 {
		r.topN = n
	}
	return r
}

// WithAbilityThreshold returns a new config with the given threshold.
func (r RankingConfig) WithAbilityThreshold(t float64) RankingConfig {
	r.abilityThreshold = t
	return r
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host                string
	port                int
	dataDir             string
	dbURL               string
	logLevel            string
	logFormat           LogFormat
	apiKeys             []string
	embeddingEndpoint   *Endpoint
	generationPrimary   *Endpoint
	generationSecondary *Endpoint
	cache               CacheConfig
	ranking             RankingConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillcompass"
	}
	return filepath.Join(home, ".skillcompass")
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:      DefaultHost,
		port:      DefaultPort,
		dataDir:   dataDir,
		dbURL:     "sqlite:///" + filepath.Join(dataDir, "skillcompass.db"),
		logLevel:  DefaultLogLevel,
		logFormat: LogFormatPretty,
		apiKeys:   []string{},
		cache:     NewCacheConfig(),
		ranking:   NewRankingConfig(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the configured API keys.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// EmbeddingEndpoint returns the embedding endpoint config.
func (c AppConfig) EmbeddingEndpoint() *Endpoint { return c.embeddingEndpoint }

// GenerationPrimary returns the primary generation endpoint config.
func (c AppConfig) GenerationPrimary() *Endpoint { return c.generationPrimary }

// GenerationSecondary returns the secondary generation endpoint config.
func (c AppConfig) GenerationSecondary() *Endpoint { return c.generationSecondary }

// Cache returns the cache config.
func (c AppConfig) Cache() CacheConfig { return c.cache }

// Ranking returns the ranking config.
func (c AppConfig) Ranking() RankingConfig { return c.ranking }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		if c.dbURL == "" || strings.Contains(c.dbURL, "skillcompass.db") {
			c.dbURL = "sqlite:///" + filepath.Join(dir, "skillcompass.db")
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithEmbeddingEndpoint sets the embedding endpoint.
func WithEmbeddingEndpoint(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.embeddingEndpoint = &e }
}

// WithGenerationPrimary sets the primary generation endpoint.
func WithGenerationPrimary(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.generationPrimary = &e }
}

// WithGenerationSecondary sets the secondary generation endpoint.
func WithGenerationSecondary(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.generationSecondary = &e }
}

// WithCacheConfig sets the cache config.
func WithCacheConfig(cc CacheConfig) AppConfigOption {
	return func(c *AppConfig) { c.cache = cc }
}

// WithRankingConfig sets the ranking config.
func WithRankingConfig(r RankingConfig) AppConfigOption {
	return func(c *AppConfig) { c.ranking = r }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Sensitive values like API keys are masked or shown as counts.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("embedding_model", endpointModel(c.embeddingEndpoint)),
		slog.String("generation_primary_model", endpointModel(c.generationPrimary)),
		slog.String("generation_secondary_model", endpointModel(c.generationSecondary)),
		slog.Bool("cache_redis", c.cache.UsesRedis()),
		slog.Int("api_keys_count", len(c.apiKeys)),
		slog.Int("ranking_top_n", c.ranking.TopN()),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

func endpointModel(e *Endpoint) string {
	if e == nil {
		return "(not configured)"
	}
	return e.Model()
}

// ParseAPIKeys parses a comma-separated string of API keys.
func ParseAPIKeys(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
