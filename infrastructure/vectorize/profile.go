package vectorize

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/skillcompass/skillcompass/domain/profile"
	"github.com/skillcompass/skillcompass/infrastructure/provider"
	"github.com/skillcompass/skillcompass/internal/cache"
)

// DefaultProfileVectorTTL bounds how long a user profile vector may serve
// from cache. Profiles change far more often than the catalog, and a stale
// vector silently degrades recommendation quality without any visible
// error, so a bounded TTL forces periodic refresh even if explicit
// invalidation is missed.
const DefaultProfileVectorTTL = 24 * time.Hour

// cachedProfileVector is the JSON cache form of profile.Vector.
type cachedProfileVector struct {
	UserID    int64     `json:"user_id"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileVectorizer computes and caches one semantic vector per user.
type ProfileVectorizer struct {
	embedder provider.Embedder
	ns       cache.Namespace[cachedProfileVector]
	log      *slog.Logger
}

// ProfileOption is a functional option for ProfileVectorizer.
type ProfileOption func(*profileSettings)

type profileSettings struct {
	ttl time.Duration
	log *slog.Logger
}

// WithProfileVectorTTL overrides the cache TTL.
func WithProfileVectorTTL(ttl time.Duration) ProfileOption {
	return func(s *profileSettings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithProfileLogger sets the logger.
func WithProfileLogger(log *slog.Logger) ProfileOption {
	return func(s *profileSettings) {
		if log != nil {
			s.log = log
		}
	}
}

// NewProfileVectorizer creates a profile vectorizer on top of a cache
// store.
func NewProfileVectorizer(embedder provider.Embedder, cacheStore cache.Store, opts ...ProfileOption) *ProfileVectorizer {
	settings := profileSettings{
		ttl: DefaultProfileVectorTTL,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(&settings)
	}

	return &ProfileVectorizer{
		embedder: embedder,
		ns:       cache.NewNamespace[cachedProfileVector](cacheStore, "user_vectors", settings.ttl),
		log:      settings.log,
	}
}

// UserProfileVector returns the user's semantic vector, computing and
// caching it on a miss. The projection never fails on missing optional
// fields: empty skills or history lists contribute empty segments.
func (v *ProfileVectorizer) UserProfileVector(ctx context.Context, p profile.UserProfile) (profile.Vector, error) {
	key := userKey(p.UserID())

	if cached, ok, err := v.ns.Get(ctx, key); err != nil {
		return profile.Vector{}, fmt.Errorf("read user vector cache: %w", err)
	} else if ok {
		return profile.NewVector(cached.UserID, cached.Vector, cached.CreatedAt), nil
	}

	vectors, err := v.embedder.Embed(ctx, []string{p.Projection()})
	if err != nil {
		return profile.Vector{}, fmt.Errorf("embed user %d profile: %w", p.UserID(), err)
	}
	if len(vectors) == 0 {
		return profile.Vector{}, fmt.Errorf("embed user %d profile: empty response", p.UserID())
	}

	created := profile.NewVector(p.UserID(), vectors[0], time.Now())
	cached := cachedProfileVector{
		UserID:    created.UserID(),
		Vector:    created.Vector(),
		CreatedAt: created.CreatedAt(),
	}
	if err := v.ns.Set(ctx, key, cached); err != nil {
		return profile.Vector{}, fmt.Errorf("write user vector cache: %w", err)
	}

	v.log.Debug("built user profile vector", "user_id", p.UserID())
	return created, nil
}

// Invalidate removes the cached vector for a user. Called by the profile
// CRUD layer after a profile mutation.
func (v *ProfileVectorizer) Invalidate(ctx context.Context, userID int64) error {
	if err := v.ns.Delete(ctx, userKey(userID)); err != nil {
		return fmt.Errorf("invalidate user %d vector: %w", userID, err)
	}
	return nil
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
