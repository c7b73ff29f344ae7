// Package skillcompass provides a library for AI-assisted talent
// development recommendations.
//
// SkillCompass keeps a catalog of courses, certifications and roles,
// vectorizes it together with user profiles, and generates explained
// career trajectory, learning and role recommendations with an automatic
// fallback between two generation providers.
//
// Basic usage:
//
//	client, err := skillcompass.New(
//	    skillcompass.WithSQLite(".skillcompass/data.db"),
//	    skillcompass.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	    skillcompass.WithAnthropic(os.Getenv("ANTHROPIC_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Generate a career trajectory
//	result, err := client.Recommendations.Trajectory(ctx, userID, recommend.Filters{})
//
//	// Rank the catalog against a user profile
//	courses, certs, err := client.Recommendations.FindRelevantCoursesAndCerts(
//	    ctx, userID, recommend.Filters{Category: "Cloud"}, 10)
package skillcompass

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/skillcompass/skillcompass/application/service"
	"github.com/skillcompass/skillcompass/domain/recommend"
	"github.com/skillcompass/skillcompass/infrastructure/persistence"
	"github.com/skillcompass/skillcompass/infrastructure/ranking"
	"github.com/skillcompass/skillcompass/infrastructure/recommender"
	"github.com/skillcompass/skillcompass/infrastructure/vectorize"
	"github.com/skillcompass/skillcompass/internal/cache"
	"github.com/skillcompass/skillcompass/internal/database"
)

// ErrNoEmbedder indicates that no embedding provider was configured. The
// ranking pipeline cannot run without one.
var ErrNoEmbedder = errors.New("no embedding provider configured")

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = errors.New("skillcompass: client is closed")

// Client is the main entry point for the skillcompass library.
//
// Access resources via struct fields:
//
//	client.Recommendations.Trajectory(ctx, userID, filters)
//	client.Catalog.ListCourses(ctx, repository.WithCategory("Cloud"))
//	client.Users.AddSkill(ctx, userID, "Go")
type Client struct {
	// Public resource fields (direct service access)
	Recommendations *service.Recommendation
	Catalog         persistence.CatalogStore
	Users           persistence.UserStore
	Profiles        persistence.ProfileStore

	db         database.Database
	cacheStore cache.Store
	redisCache *cache.Redis

	vectorizer     *vectorize.ProfileVectorizer
	catalogVectors *vectorize.CatalogVectorStore
	generator      *recommender.Generator

	logger  *slog.Logger
	dataDir string
	apiKeys []string
	closed  atomic.Bool
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.embedder == nil {
		return nil, ErrNoEmbedder
	}
	if cfg.primaryGenerator == nil && cfg.secondaryGenerator == nil {
		return nil, recommend.ErrNoProviders
	}

	dataDir, err := prepareDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	dbURL := cfg.dbURL
	if dbURL == "" {
		dbURL = "sqlite:///" + filepath.Join(dataDir, "skillcompass.db")
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	// Pick the cache backend
	var cacheStore cache.Store
	var redisCache *cache.Redis
	if cfg.redisURL != "" {
		redisCache, err = cache.NewRedisFromURL(cfg.redisURL)
		if err != nil {
			errClose := db.Close()
			return nil, errors.Join(fmt.Errorf("connect redis: %w", err), errClose)
		}
		cacheStore = redisCache
		logger.Info("redis cache enabled")
	} else {
		cacheStore = cache.NewMemory()
	}

	catalogStore := persistence.NewCatalogStore(db)
	profileStore := persistence.NewProfileStore(db)
	userStore := persistence.NewUserStore(db)

	vectorizer := vectorize.NewProfileVectorizer(cfg.embedder, cacheStore,
		vectorize.WithProfileVectorTTL(cfg.profileVectorTTL),
		vectorize.WithProfileLogger(logger),
	)
	catalogVectors := vectorize.NewCatalogVectorStore(catalogStore, cfg.embedder, cacheStore,
		vectorize.WithEmbedParallelism(cfg.embedParallelism),
		vectorize.WithCatalogLogger(logger),
	)
	ranker := ranking.NewRanker(cfg.embedder)

	generator, err := recommender.NewGenerator(cfg.primaryGenerator, cfg.secondaryGenerator, cacheStore,
		recommender.WithResultTTL(cfg.resultTTL),
		recommender.WithMaxTokens(cfg.maxTokens),
		recommender.WithGeneratorLogger(logger),
	)
	if err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("create generator: %w", err), errClose)
	}

	client := &Client{
		Catalog:        catalogStore,
		Users:          userStore,
		Profiles:       profileStore,
		db:             db,
		cacheStore:     cacheStore,
		redisCache:     redisCache,
		vectorizer:     vectorizer,
		catalogVectors: catalogVectors,
		generator:      generator,
		logger:         logger,
		dataDir:        dataDir,
		apiKeys:        cfg.apiKeys,
	}

	client.Recommendations = service.NewRecommendation(
		profileStore,
		vectorizer,
		catalogVectors,
		ranker,
		generator,
		cfg.ranking,
		logger,
	)

	return client, nil
}

// Close releases all resources.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			c.logger.Error("failed to close redis cache", slog.Any("error", err))
		}
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("skillcompass client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// APIKeys returns the keys protecting mutating HTTP endpoints.
func (c *Client) APIKeys() []string {
	return append([]string(nil), c.apiKeys...)
}

// DataDir returns the resolved data directory.
func (c *Client) DataDir() string {
	return c.dataDir
}

// prepareDataDir expands and creates the data directory.
func prepareDataDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return abs, nil
}
