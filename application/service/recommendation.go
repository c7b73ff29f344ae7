// Package service provides application layer services that orchestrate domain operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/skillcompass/skillcompass/domain/catalog"
	"github.com/skillcompass/skillcompass/domain/profile"
	"github.com/skillcompass/skillcompass/domain/recommend"
	"github.com/skillcompass/skillcompass/infrastructure/ranking"
	"github.com/skillcompass/skillcompass/internal/config"
	"github.com/skillcompass/skillcompass/internal/database"
)

// ProfileVectorizer produces and invalidates cached user profile vectors.
type ProfileVectorizer interface {
	UserProfileVector(ctx context.Context, p profile.UserProfile) (profile.Vector, error)
	Invalidate(ctx context.Context, userID int64) error
}

// CatalogVectorSource supplies embedding records for catalog entities.
type CatalogVectorSource interface {
	GetOrCreateVectors(ctx context.Context) (catalog.Vectors, error)
	RoleVectors(ctx context.Context) ([]catalog.EmbeddingRecord, error)
	Invalidate(ctx context.Context) error
}

// CandidateRanker ranks catalog candidates against a query vector.
type CandidateRanker interface {
	Rank(ctx context.Context, candidates []catalog.EmbeddingRecord, query []float64, opts ranking.Options) ([]recommend.RankedCandidate, error)
}

// Generator produces cached, structured recommendations from shortlists.
type Generator interface {
	Trajectory(ctx context.Context, user profile.UserProfile, filters recommend.Filters) (recommend.Result, error)
	CoursesAndCerts(ctx context.Context, user profile.UserProfile, topCourses, topCerts []recommend.RankedCandidate, filters recommend.Filters) (recommend.Result, error)
	Roles(ctx context.Context, user profile.UserProfile, topRoles []recommend.RankedCandidate, filters recommend.Filters) (recommend.Result, error)
	Invalidate(ctx context.Context, userID int64, role string) error
}

// ErrUserNotFound indicates the requested user does not exist.
var ErrUserNotFound = errors.New("user not found")

// Recommendation orchestrates the recommendation pipeline: profile lookup,
// vectorization, similarity ranking and generation.
type Recommendation struct {
	profiles       profile.Store
	vectorizer     ProfileVectorizer
	catalogVectors CatalogVectorSource
	ranker         CandidateRanker
	generator      Generator
	rankingCfg     config.RankingConfig
	logger         *slog.Logger
}

// NewRecommendation creates the recommendation service.
func NewRecommendation(
	profiles profile.Store,
	vectorizer ProfileVectorizer,
	catalogVectors CatalogVectorSource,
	ranker CandidateRanker,
	generator Generator,
	rankingCfg config.RankingConfig,
	logger *slog.Logger,
) *Recommendation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recommendation{
		profiles:       profiles,
		vectorizer:     vectorizer,
		catalogVectors: catalogVectors,
		ranker:         ranker,
		generator:      generator,
		rankingCfg:     rankingCfg,
		logger:         logger,
	}
}

// Trajectory returns a career trajectory recommendation for the user.
func (r *Recommendation) Trajectory(ctx context.Context, userID int64, filters recommend.Filters) (recommend.Result, error) {
	user, err := r.profile(ctx, userID)
	if err != nil {
		return recommend.Result{}, err
	}

	result, err := r.generator.Trajectory(ctx, user, filters)
	if err != nil {
		return recommend.Result{}, fmt.Errorf("generate trajectory: %w", err)
	}
	r.logResult(ctx, userID, result)
	return result, nil
}

// CoursesAndCerts returns course and certification recommendations for the
// user, grounded on ranked shortlists. A non-positive limit falls back to
// the configured shortlist size.
func (r *Recommendation) CoursesAndCerts(ctx context.Context, userID int64, topCourses, topCerts int, filters recommend.Filters) (recommend.Result, error) {
	user, err := r.profile(ctx, userID)
	if err != nil {
		return recommend.Result{}, err
	}

	courses, certs, err := r.findCoursesAndCerts(ctx, user, filters, topCourses, topCerts)
	if err != nil {
		return recommend.Result{}, err
	}

	result, err := r.generator.CoursesAndCerts(ctx, user, courses, certs, filters)
	if err != nil {
		return recommend.Result{}, fmt.Errorf("generate courses and certifications: %w", err)
	}
	r.logResult(ctx, userID, result)
	return result, nil
}

// Roles returns role recommendations for the user, grounded on a ranked
// role shortlist.
func (r *Recommendation) Roles(ctx context.Context, userID int64, topRoles int, filters recommend.Filters) (recommend.Result, error) {
	user, err := r.profile(ctx, userID)
	if err != nil {
		return recommend.Result{}, err
	}

	roles, err := r.findRoles(ctx, user, filters, topRoles)
	if err != nil {
		return recommend.Result{}, err
	}

	result, err := r.generator.Roles(ctx, user, roles, filters)
	if err != nil {
		return recommend.Result{}, fmt.Errorf("generate roles: %w", err)
	}
	r.logResult(ctx, userID, result)
	return result, nil
}

// FindRelevantCoursesAndCerts ranks the course and certification catalogs
// against the user's profile vector and returns the two shortlists.
func (r *Recommendation) FindRelevantCoursesAndCerts(ctx context.Context, userID int64, filters recommend.Filters, limit int) ([]recommend.RankedCandidate, []recommend.RankedCandidate, error) {
	user, err := r.profile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return r.findCoursesAndCerts(ctx, user, filters, limit, limit)
}

// FindRelevantRoles ranks the role catalog against the user's profile
// vector and returns the shortlist.
func (r *Recommendation) FindRelevantRoles(ctx context.Context, userID int64, filters recommend.Filters, limit int) ([]recommend.RankedCandidate, error) {
	user, err := r.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.findRoles(ctx, user, filters, limit)
}

// InvalidateRecommendationCaches removes every cached recommendation for
// the user, including role-scoped trajectory entries. A missing user still
// clears the per-user keys.
func (r *Recommendation) InvalidateRecommendationCaches(ctx context.Context, userID int64) error {
	role := ""
	user, err := r.profile(ctx, userID)
	switch {
	case err == nil:
		role = user.CurrentRole()
	case errors.Is(err, ErrUserNotFound):
	default:
		return err
	}

	if err := r.generator.Invalidate(ctx, userID, role); err != nil {
		return fmt.Errorf("invalidate recommendation caches: %w", err)
	}
	r.logger.InfoContext(ctx, "invalidated recommendation caches", slog.Int64("user_id", userID))
	return nil
}

// InvalidateUserVectorCache removes the user's cached profile vector.
func (r *Recommendation) InvalidateUserVectorCache(ctx context.Context, userID int64) error {
	if err := r.vectorizer.Invalidate(ctx, userID); err != nil {
		return fmt.Errorf("invalidate user vector: %w", err)
	}
	return nil
}

// InvalidateCatalogVectors removes the cached catalog embedding records so
// the next ranking pass re-embeds the catalog.
func (r *Recommendation) InvalidateCatalogVectors(ctx context.Context) error {
	if err := r.catalogVectors.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate catalog vectors: %w", err)
	}
	return nil
}

func (r *Recommendation) profile(ctx context.Context, userID int64) (profile.UserProfile, error) {
	user, err := r.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return profile.UserProfile{}, fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
		}
		return profile.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
	return user, nil
}

func (r *Recommendation) findCoursesAndCerts(ctx context.Context, user profile.UserProfile, filters recommend.Filters, topCourses, topCerts int) ([]recommend.RankedCandidate, []recommend.RankedCandidate, error) {
	query, err := r.vectorizer.UserProfileVector(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("vectorize profile: %w", err)
	}

	vectors, err := r.catalogVectors.GetOrCreateVectors(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog vectors: %w", err)
	}

	courses, err := r.ranker.Rank(ctx, vectors.Courses, query.Vector(), r.rankOptions(topCourses, filters, exclusionSet(user.Courses())))
	if err != nil {
		return nil, nil, fmt.Errorf("rank courses: %w", err)
	}

	certs, err := r.ranker.Rank(ctx, vectors.Certifications, query.Vector(), r.rankOptions(topCerts, filters, exclusionSet(user.Certifications())))
	if err != nil {
		return nil, nil, fmt.Errorf("rank certifications: %w", err)
	}

	return courses, certs, nil
}

func (r *Recommendation) findRoles(ctx context.Context, user profile.UserProfile, filters recommend.Filters, topRoles int) ([]recommend.RankedCandidate, error) {
	query, err := r.vectorizer.UserProfileVector(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("vectorize profile: %w", err)
	}

	records, err := r.catalogVectors.RoleVectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("role vectors: %w", err)
	}

	roles, err := r.ranker.Rank(ctx, records, query.Vector(), r.rankOptions(topRoles, filters, nil))
	if err != nil {
		return nil, fmt.Errorf("rank roles: %w", err)
	}
	return roles, nil
}

func (r *Recommendation) rankOptions(limit int, filters recommend.Filters, exclude map[int64]struct{}) ranking.Options {
	if limit <= 0 {
		limit = r.rankingCfg.TopN()
	}
	return ranking.Options{
		TopN:             limit,
		Exclude:          exclude,
		Filters:          filters,
		AbilityThreshold: r.rankingCfg.AbilityThreshold(),
	}
}

func (r *Recommendation) logResult(ctx context.Context, userID int64, result recommend.Result) {
	r.logger.DebugContext(ctx, "recommendation served",
		slog.Int64("user_id", userID),
		slog.String("kind", string(result.Kind)),
		slog.Bool("from_cache", result.FromCache),
	)
}

func exclusionSet(items []profile.HeldItem) map[int64]struct{} {
	if len(items) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(items))
	for _, item := range items {
		set[item.ID()] = struct{}{}
	}
	return set
}
