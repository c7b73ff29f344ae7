package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "INFO", cfg.LogLevel)
	require.InDelta(t, 24.0, cfg.Cache.ProfileVectorTTLHours, 1e-9)
	require.InDelta(t, 30.0, cfg.Cache.ResultTTLDays, 1e-9)
	require.Equal(t, 20, cfg.Ranking.TopN)
}

func TestLoadFromEnv_Endpoints(t *testing.T) {
	t.Setenv("EMBEDDING_ENDPOINT_API_KEY", "sk-embed")
	t.Setenv("EMBEDDING_ENDPOINT_MODEL", "text-embedding-3-small")
	t.Setenv("GENERATION_PRIMARY_API_KEY", "sk-primary")
	t.Setenv("GENERATION_PRIMARY_TEMPERATURE", "0.3")
	t.Setenv("GENERATION_SECONDARY_API_KEY", "sk-secondary")
	t.Setenv("GENERATION_SECONDARY_BASE_URL", "https://api.anthropic.com")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	require.True(t, cfg.EmbeddingEndpoint.IsConfigured())
	require.Equal(t, "text-embedding-3-small", cfg.EmbeddingEndpoint.Model)
	require.True(t, cfg.GenerationPrimary.IsConfigured())
	require.InDelta(t, 0.3, cfg.GenerationPrimary.Temperature, 1e-9)
	require.True(t, cfg.GenerationSecondary.IsConfigured())
	require.Equal(t, "https://api.anthropic.com", cfg.GenerationSecondary.BaseURL)
}

func TestEnvConfig_ToAppConfig(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_URL", "postgres://u:p@db/skillcompass")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("API_KEYS", "k1,k2")
	t.Setenv("CACHE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_RESULT_TTL_DAYS", "7")
	t.Setenv("RANKING_ABILITY_THRESHOLD", "0.5")
	t.Setenv("GENERATION_PRIMARY_API_KEY", "sk-primary")

	envCfg, err := LoadFromEnv()
	require.NoError(t, err)
	cfg := envCfg.ToAppConfig()

	require.Equal(t, "127.0.0.1:9090", cfg.Addr())
	require.Equal(t, "postgres://u:p@db/skillcompass", cfg.DBURL())
	require.Equal(t, LogFormatJSON, cfg.LogFormat())
	require.Equal(t, []string{"k1", "k2"}, cfg.APIKeys())
	require.True(t, cfg.Cache().UsesRedis())
	require.Equal(t, 7*24*time.Hour, cfg.Cache().ResultTTL())
	require.InDelta(t, 0.5, cfg.Ranking().AbilityThreshold(), 1e-9)
	require.NotNil(t, cfg.GenerationPrimary())
	require.Nil(t, cfg.GenerationSecondary())
}

func TestEndpointEnv_ToEndpoint(t *testing.T) {
	e := EndpointEnv{
		APIKey:        "sk-test",
		Model:         "gpt-4o-mini",
		Timeout:       30,
		MaxRetries:    3,
		InitialDelay:  1.5,
		BackoffFactor: 2.0,
		MaxTokens:     2048,
	}

	endpoint := e.ToEndpoint()
	require.Equal(t, "sk-test", endpoint.APIKey())
	require.Equal(t, 30*time.Second, endpoint.Timeout())
	require.Equal(t, 1500*time.Millisecond, endpoint.InitialDelay())
	require.Equal(t, 2048, endpoint.MaxTokens())
}

func TestParseLogFormat(t *testing.T) {
	require.Equal(t, LogFormatJSON, parseLogFormat("json"))
	require.Equal(t, LogFormatJSON, parseLogFormat("JSON"))
	require.Equal(t, LogFormatPretty, parseLogFormat("pretty"))
	require.Equal(t, LogFormatPretty, parseLogFormat("anything-else"))
}
