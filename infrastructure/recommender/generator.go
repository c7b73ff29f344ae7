// Package recommender implements the generative recommendation engine:
// per-kind prompt construction, dual-provider failover, schema-validated
// response parsing and long-lived result caching.
package recommender

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/skillcompass/skillcompass/domain/profile"
	"github.com/skillcompass/skillcompass/domain/recommend"
	"github.com/skillcompass/skillcompass/infrastructure/provider"
	"github.com/skillcompass/skillcompass/internal/cache"
)

// DefaultResultTTL is how long generated recommendations stay cached.
// Recommendations age well; profile changes invalidate them explicitly.
const DefaultResultTTL = 30 * 24 * time.Hour

// defaultMaxTokens bounds the generation output size.
const defaultMaxTokens = 4096

// Namespace prefixes for the three recommendation caches.
const (
	trajectoryCachePrefix = "rec_trajectory"
	courseCertCachePrefix = "rec_course_cert"
	roleCachePrefix       = "rec_role"
)

// Generator produces structured recommendations through the generation
// providers. The active provider is process-wide state: once a call fails
// over, subsequent calls start on the surviving provider.
type Generator struct {
	primary   provider.TextGenerator
	secondary provider.TextGenerator
	state     atomic.Int32

	trajectoryNS cache.Namespace[recommend.TrajectoryPayload]
	courseCertNS cache.Namespace[recommend.CourseCertPayload]
	roleNS       cache.Namespace[recommend.RolePayload]

	bounds    PromptBounds
	maxTokens int
	ttl       time.Duration
	log       *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithPromptBounds overrides the prompt context bounds.
func WithPromptBounds(bounds PromptBounds) GeneratorOption {
	return func(g *Generator) { g.bounds = bounds }
}

// WithResultTTL overrides the recommendation cache TTL.
func WithResultTTL(ttl time.Duration) GeneratorOption {
	return func(g *Generator) { g.ttl = ttl }
}

// WithMaxTokens overrides the generation output token limit.
func WithMaxTokens(n int) GeneratorOption {
	return func(g *Generator) { g.maxTokens = n }
}

// WithGeneratorLogger sets the logger.
func WithGeneratorLogger(log *slog.Logger) GeneratorOption {
	return func(g *Generator) { g.log = log }
}

// NewGenerator creates a generator over the configured providers. Either
// provider may be nil when its credentials are absent; at least one must
// be configured or ErrNoProviders is returned. The initial active provider
// is the primary when configured, otherwise the secondary.
func NewGenerator(primary, secondary provider.TextGenerator, store cache.Store, opts ...GeneratorOption) (*Generator, error) {
	if primary == nil && secondary == nil {
		return nil, recommend.ErrNoProviders
	}

	g := &Generator{
		primary:   primary,
		secondary: secondary,
		bounds:    DefaultPromptBounds(),
		maxTokens: defaultMaxTokens,
		ttl:       DefaultResultTTL,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if primary == nil {
		g.state.Store(int32(StateSecondary))
	}

	g.trajectoryNS = cache.NewNamespace[recommend.TrajectoryPayload](store, trajectoryCachePrefix, g.ttl)
	g.courseCertNS = cache.NewNamespace[recommend.CourseCertPayload](store, courseCertCachePrefix, g.ttl)
	g.roleNS = cache.NewNamespace[recommend.RolePayload](store, roleCachePrefix, g.ttl)
	return g, nil
}

// ActiveState returns the current failover state.
func (g *Generator) ActiveState() ProviderState {
	return ProviderState(g.state.Load())
}

// Trajectory generates a career trajectory for the user. Trajectories
// depend on the current role only, so results are cached per normalized
// role and shared across users holding that role.
func (g *Generator) Trajectory(ctx context.Context, user profile.UserProfile, filters recommend.Filters) (recommend.Result, error) {
	key := scopedKey("role:"+normalizeRole(user.CurrentRole()), filters)
	payload, fromCache, err := generate(ctx, g, g.trajectoryNS, key, trajectoryPrompt(user, g.bounds), trajectorySchema)
	if err != nil {
		return recommend.Result{}, err
	}
	return recommend.Result{Kind: recommend.KindTrajectory, FromCache: fromCache, Trajectory: &payload}, nil
}

// CoursesAndCerts generates course and certification recommendations from
// the ranked shortlists. Cached per user.
func (g *Generator) CoursesAndCerts(ctx context.Context, user profile.UserProfile, topCourses, topCerts []recommend.RankedCandidate, filters recommend.Filters) (recommend.Result, error) {
	key := scopedKey(userKey(user.UserID()), filters)
	payload, fromCache, err := generate(ctx, g, g.courseCertNS, key, courseCertPrompt(user, topCourses, topCerts, g.bounds), courseCertSchema)
	if err != nil {
		return recommend.Result{}, err
	}
	return recommend.Result{Kind: recommend.KindCourseCert, FromCache: fromCache, CourseCert: &payload}, nil
}

// Roles generates role recommendations from the ranked shortlist. Cached
// per user.
func (g *Generator) Roles(ctx context.Context, user profile.UserProfile, topRoles []recommend.RankedCandidate, filters recommend.Filters) (recommend.Result, error) {
	key := scopedKey(userKey(user.UserID()), filters)
	payload, fromCache, err := generate(ctx, g, g.roleNS, key, rolePrompt(user, topRoles, g.bounds), roleSchema)
	if err != nil {
		return recommend.Result{}, err
	}
	return recommend.Result{Kind: recommend.KindRole, FromCache: fromCache, Roles: &payload}, nil
}

// Invalidate removes the cached recommendations affected by a profile
// change: the trajectory entries for role (when given) and every per-user
// entry of the other two kinds, including filter-scoped variants.
func (g *Generator) Invalidate(ctx context.Context, userID int64, role string) error {
	if strings.TrimSpace(role) != "" {
		base := "role:" + normalizeRole(role)
		if err := g.trajectoryNS.Delete(ctx, base); err != nil {
			return fmt.Errorf("invalidate trajectory cache: %w", err)
		}
		if err := g.trajectoryNS.DeletePrefix(ctx, base+":"); err != nil {
			return fmt.Errorf("invalidate trajectory cache: %w", err)
		}
	}

	base := userKey(userID)
	if err := g.courseCertNS.Delete(ctx, base); err != nil {
		return fmt.Errorf("invalidate course cache: %w", err)
	}
	if err := g.courseCertNS.DeletePrefix(ctx, base+":"); err != nil {
		return fmt.Errorf("invalidate course cache: %w", err)
	}
	if err := g.roleNS.Delete(ctx, base); err != nil {
		return fmt.Errorf("invalidate role cache: %w", err)
	}
	if err := g.roleNS.DeletePrefix(ctx, base+":"); err != nil {
		return fmt.Errorf("invalidate role cache: %w", err)
	}
	return nil
}

// generate serves one recommendation: cache lookup, prompt completion with
// failover, schema-validated parse and cache write. The bool result
// reports whether the payload came from cache.
func generate[T any](ctx context.Context, g *Generator, ns cache.Namespace[T], key string, messages []provider.Message, schema *gojsonschema.Schema) (T, bool, error) {
	var zero T

	cached, ok, err := ns.Get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("recommendation cache read: %w", err)
	}
	if ok {
		return cached, true, nil
	}

	text, err := g.complete(ctx, messages)
	if err != nil {
		return zero, false, err
	}

	payload, err := parsePayload[T](schema, text)
	if err != nil {
		return zero, false, err
	}

	if err := ns.Set(ctx, key, payload); err != nil {
		// A failed cache write degrades the next call to a regeneration;
		// the current result is still good.
		g.log.Warn("recommendation cache write failed", "key", key, "error", err)
	}
	return payload, false, nil
}

// complete runs one chat completion with the single-switch failover
// budget: the active provider gets one attempt, any failure moves to the
// other provider for one more attempt, a second failure is terminal.
func (g *Generator) complete(ctx context.Context, messages []provider.Message) (string, error) {
	req := provider.NewChatCompletionRequest(messages).WithMaxTokens(g.maxTokens)

	state := ProviderState(g.state.Load())
	active := g.providerFor(state)

	resp, err := active.ChatCompletion(ctx, req)
	if err == nil {
		return resp.Content(), nil
	}

	kind := Classify(err)
	next := Transition(state, kind)
	fallback := g.providerFor(next)
	if fallback == nil {
		return "", fmt.Errorf("%w: %s: %v", recommend.ErrProvidersExhausted, active.Name(), err)
	}

	g.state.Store(int32(next))
	g.log.Warn("generation provider failed, switching",
		"from", active.Name(),
		"to", fallback.Name(),
		"quota", kind == ErrorKindQuota,
		"error", err,
	)

	resp, retryErr := fallback.ChatCompletion(ctx, req)
	if retryErr != nil {
		return "", fmt.Errorf("%w: %s: %v; %s: %v",
			recommend.ErrProvidersExhausted, active.Name(), err, fallback.Name(), retryErr)
	}
	return resp.Content(), nil
}

// providerFor returns the provider for a state, or nil when that slot is
// not configured.
func (g *Generator) providerFor(state ProviderState) provider.TextGenerator {
	if state == StateSecondary {
		return g.secondary
	}
	return g.primary
}

// normalizeRole canonicalizes a role name for cache keying: lowercased,
// whitespace runs collapsed to single underscores.
func normalizeRole(role string) string {
	fields := strings.Fields(strings.ToLower(role))
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.Join(fields, "_")
}

// userKey builds the per-user cache key base.
func userKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

// scopedKey appends the filter hash to a base key so filtered and
// unfiltered results never collide.
func scopedKey(base string, filters recommend.Filters) string {
	if hash := filters.Hash(); hash != "" {
		return base + ":" + hash
	}
	return base
}
