package skillcompass

import (
	"log/slog"
	"time"

	"github.com/skillcompass/skillcompass/infrastructure/provider"
	"github.com/skillcompass/skillcompass/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	dbURL              string
	dataDir            string
	redisURL           string
	embedder           provider.Embedder
	primaryGenerator   provider.TextGenerator
	secondaryGenerator provider.TextGenerator
	logger             *slog.Logger
	apiKeys            []string
	profileVectorTTL   time.Duration
	resultTTL          time.Duration
	ranking            config.RankingConfig
	maxTokens          int
	embedParallelism   int
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir:          config.DefaultDataDir(),
		profileVectorTTL: config.DefaultProfileVectorTTL,
		resultTTL:        time.Duration(config.DefaultResultTTLDays) * 24 * time.Hour,
		ranking:          config.NewRankingConfig(),
		maxTokens:        config.DefaultEndpointMaxTokens,
		embedParallelism: 1,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithPostgres configures PostgreSQL as the database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.dbURL = dsn
	}
}

// WithDatabaseURL sets the database connection URL directly.
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithDataDir sets the data directory. The default SQLite database lives
// underneath it.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithRedis selects Redis as the cache backend. Without it the client uses
// an in-process cache.
func WithRedis(url string) Option {
	return func(c *clientConfig) {
		c.redisURL = url
	}
}

// WithOpenAI sets OpenAI as the AI provider (embeddings + primary generation).
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		p := provider.NewOpenAIProvider(provider.OpenAIConfig{APIKey: apiKey})
		c.embedder = p
		c.primaryGenerator = p
	}
}

// WithOpenAIConfig sets OpenAI with custom configuration.
func WithOpenAIConfig(cfg provider.OpenAIConfig) Option {
	return func(c *clientConfig) {
		p := provider.NewOpenAIProvider(cfg)
		c.embedder = p
		c.primaryGenerator = p
	}
}

// WithAnthropic sets Anthropic Claude as the secondary generation provider.
// Anthropic does not provide embeddings, so an embedding provider is still
// required.
func WithAnthropic(apiKey string) Option {
	return func(c *clientConfig) {
		c.secondaryGenerator = provider.NewAnthropicProvider(provider.AnthropicConfig{APIKey: apiKey})
	}
}

// WithAnthropicConfig sets Anthropic Claude with custom configuration.
func WithAnthropicConfig(cfg provider.AnthropicConfig) Option {
	return func(c *clientConfig) {
		c.secondaryGenerator = provider.NewAnthropicProvider(cfg)
	}
}

// WithEmbedder sets a custom embedding provider.
func WithEmbedder(e provider.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithPrimaryGenerator sets a custom primary text generation provider.
func WithPrimaryGenerator(p provider.TextGenerator) Option {
	return func(c *clientConfig) {
		c.primaryGenerator = p
	}
}

// WithSecondaryGenerator sets the fallback text generation provider.
func WithSecondaryGenerator(p provider.TextGenerator) Option {
	return func(c *clientConfig) {
		c.secondaryGenerator = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithAPIKeys sets the API keys that protect mutating HTTP endpoints.
func WithAPIKeys(keys []string) Option {
	return func(c *clientConfig) {
		c.apiKeys = keys
	}
}

// WithProfileVectorTTL sets how long cached user profile vectors live.
func WithProfileVectorTTL(ttl time.Duration) Option {
	return func(c *clientConfig) {
		if ttl > 0 {
			c.profileVectorTTL = ttl
		}
	}
}

// WithResultTTL sets how long cached recommendation results live.
func WithResultTTL(ttl time.Duration) Option {
	return func(c *clientConfig) {
		if ttl > 0 {
			c.resultTTL = ttl
		}
	}
}

// WithRanking sets the shortlist size and ability threshold.
func WithRanking(cfg config.RankingConfig) Option {
	return func(c *clientConfig) {
		c.ranking = cfg
	}
}

// WithMaxTokens caps generation output size.
func WithMaxTokens(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithEmbedParallelism bounds concurrent embedding batches during catalog
// vectorization.
func WithEmbedParallelism(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.embedParallelism = n
		}
	}
}

// WithConfig applies an AppConfig wholesale. Explicit options given after
// it still override individual fields.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.dataDir = cfg.DataDir()
		c.dbURL = cfg.DBURL()
		c.apiKeys = cfg.APIKeys()
		c.ranking = cfg.Ranking()
		c.profileVectorTTL = cfg.Cache().ProfileVectorTTL()
		c.resultTTL = cfg.Cache().ResultTTL()
		if cfg.Cache().UsesRedis() {
			c.redisURL = cfg.Cache().RedisURL()
		}
		if e := cfg.EmbeddingEndpoint(); e != nil {
			c.embedder = openAIFromEndpoint(*e)
		}
		if e := cfg.GenerationPrimary(); e != nil {
			p := openAIFromEndpoint(*e)
			c.primaryGenerator = p
			if c.embedder == nil {
				c.embedder = p
			}
		}
		if e := cfg.GenerationSecondary(); e != nil {
			c.secondaryGenerator = anthropicFromEndpoint(*e)
		}
	}
}

func openAIFromEndpoint(e config.Endpoint) *provider.OpenAIProvider {
	return provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey:        e.APIKey(),
		BaseURL:       e.BaseURL(),
		ChatModel:     e.Model(),
		Temperature:   e.Temperature(),
		Timeout:       e.Timeout(),
		MaxRetries:    e.MaxRetries(),
		InitialDelay:  e.InitialDelay(),
		BackoffFactor: e.BackoffFactor(),
	})
}

func anthropicFromEndpoint(e config.Endpoint) *provider.AnthropicProvider {
	return provider.NewAnthropicProvider(provider.AnthropicConfig{
		APIKey:      e.APIKey(),
		BaseURL:     e.BaseURL(),
		Model:       e.Model(),
		Temperature: e.Temperature(),
		Timeout:     e.Timeout(),
	})
}
