package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcompass/skillcompass/domain/catalog"
	"github.com/skillcompass/skillcompass/domain/profile"
	"github.com/skillcompass/skillcompass/domain/recommend"
	"github.com/skillcompass/skillcompass/infrastructure/ranking"
	"github.com/skillcompass/skillcompass/internal/config"
	"github.com/skillcompass/skillcompass/internal/database"
)

type stubProfiles struct {
	profiles map[int64]profile.UserProfile
}

func (s stubProfiles) GetProfile(_ context.Context, userID int64) (profile.UserProfile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return profile.UserProfile{}, fmt.Errorf("%w: user %d", database.ErrNotFound, userID)
	}
	return p, nil
}

type stubVectorizer struct {
	vector      []float64
	err         error
	invalidated []int64
}

func (s *stubVectorizer) UserProfileVector(_ context.Context, p profile.UserProfile) (profile.Vector, error) {
	if s.err != nil {
		return profile.Vector{}, s.err
	}
	return profile.NewVector(p.UserID(), s.vector, time.Time{}), nil
}

func (s *stubVectorizer) Invalidate(_ context.Context, userID int64) error {
	s.invalidated = append(s.invalidated, userID)
	return nil
}

type stubCatalogVectors struct {
	vectors     catalog.Vectors
	roles       []catalog.EmbeddingRecord
	invalidated bool
}

func (s *stubCatalogVectors) GetOrCreateVectors(context.Context) (catalog.Vectors, error) {
	return s.vectors, nil
}

func (s *stubCatalogVectors) RoleVectors(context.Context) ([]catalog.EmbeddingRecord, error) {
	return s.roles, nil
}

func (s *stubCatalogVectors) Invalidate(context.Context) error {
	s.invalidated = true
	return nil
}

type stubRanker struct {
	opts []ranking.Options
}

// Rank records the options it was called with and returns every candidate
// not excluded, in input order with a fixed score.
func (s *stubRanker) Rank(_ context.Context, candidates []catalog.EmbeddingRecord, _ []float64, opts ranking.Options) ([]recommend.RankedCandidate, error) {
	s.opts = append(s.opts, opts)
	ranked := make([]recommend.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, excluded := opts.Exclude[c.Item().ID()]; excluded {
			continue
		}
		ranked = append(ranked, recommend.NewRankedCandidate(c.Item(), 0.9))
	}
	return ranked, nil
}

type stubGenerator struct {
	result      recommend.Result
	err         error
	courses     []recommend.RankedCandidate
	certs       []recommend.RankedCandidate
	roles       []recommend.RankedCandidate
	invalidated []string
}

func (s *stubGenerator) Trajectory(_ context.Context, _ profile.UserProfile, _ recommend.Filters) (recommend.Result, error) {
	return s.result, s.err
}

func (s *stubGenerator) CoursesAndCerts(_ context.Context, _ profile.UserProfile, topCourses, topCerts []recommend.RankedCandidate, _ recommend.Filters) (recommend.Result, error) {
	s.courses = topCourses
	s.certs = topCerts
	return s.result, s.err
}

func (s *stubGenerator) Roles(_ context.Context, _ profile.UserProfile, topRoles []recommend.RankedCandidate, _ recommend.Filters) (recommend.Result, error) {
	s.roles = topRoles
	return s.result, s.err
}

func (s *stubGenerator) Invalidate(_ context.Context, userID int64, role string) error {
	s.invalidated = append(s.invalidated, fmt.Sprintf("%d/%s", userID, role))
	return nil
}

func serviceUser() profile.UserProfile {
	return profile.NewUserProfile(
		7,
		"Backend Engineer",
		[]profile.Skill{profile.NewSkill(1, "Go"), profile.NewSkill(2, "SQL")},
		[]profile.HeldItem{profile.NewHeldItem(11, "Go Basics")},
		[]profile.HeldItem{profile.NewHeldItem(21, "Cloud Practitioner")},
		[]profile.HistoryEntry{profile.NewHistoryEntry("Built services", "Cut latency")},
	)
}

func serviceCatalog() catalog.Vectors {
	courseA := catalog.CourseItem(catalog.ReconstructCourse(11, "Go Basics", "LearnCo", "Intro", "Programming", "beginner", 8))
	courseB := catalog.CourseItem(catalog.ReconstructCourse(12, "Advanced Go", "LearnCo", "Generics", "Programming", "advanced", 12))
	cert := catalog.CertificationItem(catalog.ReconstructCertification(21, "Cloud Practitioner", "CloudCorp", "Foundations", "Cloud"))
	return catalog.Vectors{
		Courses: []catalog.EmbeddingRecord{
			catalog.NewEmbeddingRecord(courseA, []float64{1, 0}),
			catalog.NewEmbeddingRecord(courseB, []float64{0, 1}),
		},
		Certifications: []catalog.EmbeddingRecord{
			catalog.NewEmbeddingRecord(cert, []float64{1, 1}),
		},
	}
}

func newTestRecommendation(gen *stubGenerator) (*Recommendation, *stubRanker, *stubVectorizer, *stubCatalogVectors) {
	ranker := &stubRanker{}
	vectorizer := &stubVectorizer{vector: []float64{1, 0}}
	vectors := &stubCatalogVectors{
		vectors: serviceCatalog(),
		roles: []catalog.EmbeddingRecord{
			catalog.NewEmbeddingRecord(catalog.RoleItem(catalog.ReconstructRole(31, "Staff Engineer", "Leads design", []string{"Go"}, 1)), []float64{1, 0}),
		},
	}
	svc := NewRecommendation(
		stubProfiles{profiles: map[int64]profile.UserProfile{7: serviceUser()}},
		vectorizer,
		vectors,
		ranker,
		gen,
		config.NewRankingConfig(),
		nil,
	)
	return svc, ranker, vectorizer, vectors
}

func TestRecommendation_TrajectoryLoadsProfile(t *testing.T) {
	gen := &stubGenerator{result: recommend.Result{Kind: recommend.KindTrajectory, Trajectory: &recommend.TrajectoryPayload{}}}
	svc, _, _, _ := newTestRecommendation(gen)

	result, err := svc.Trajectory(context.Background(), 7, recommend.Filters{})
	require.NoError(t, err)
	require.Equal(t, recommend.KindTrajectory, result.Kind)
}

func TestRecommendation_UnknownUserIsNotFound(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, _, _ := newTestRecommendation(gen)

	_, err := svc.Trajectory(context.Background(), 99, recommend.Filters{})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestRecommendation_CoursesAndCertsExcludesHeldItems(t *testing.T) {
	gen := &stubGenerator{result: recommend.Result{Kind: recommend.KindCourseCert, CourseCert: &recommend.CourseCertPayload{}}}
	svc, _, _, _ := newTestRecommendation(gen)

	_, err := svc.CoursesAndCerts(context.Background(), 7, 5, 5, recommend.Filters{})
	require.NoError(t, err)

	// Held course 11 and held certification 21 never reach the generator.
	require.Len(t, gen.courses, 1)
	require.Equal(t, int64(12), gen.courses[0].Item().ID())
	require.Empty(t, gen.certs)
}

func TestRecommendation_RolesUsesRoleVectors(t *testing.T) {
	gen := &stubGenerator{result: recommend.Result{Kind: recommend.KindRole, Roles: &recommend.RolePayload{}}}
	svc, _, _, _ := newTestRecommendation(gen)

	_, err := svc.Roles(context.Background(), 7, 3, recommend.Filters{})
	require.NoError(t, err)
	require.Len(t, gen.roles, 1)
	require.Equal(t, "Staff Engineer", gen.roles[0].Item().Name())
}

func TestRecommendation_DefaultShortlistSize(t *testing.T) {
	gen := &stubGenerator{result: recommend.Result{Kind: recommend.KindRole, Roles: &recommend.RolePayload{}}}
	svc, ranker, _, _ := newTestRecommendation(gen)

	_, err := svc.Roles(context.Background(), 7, 0, recommend.Filters{})
	require.NoError(t, err)
	require.Len(t, ranker.opts, 1)
	require.Equal(t, config.DefaultRankingTopN, ranker.opts[0].TopN)
	require.InDelta(t, config.DefaultAbilityThreshold, ranker.opts[0].AbilityThreshold, 1e-9)
}

func TestRecommendation_FindRelevantCoursesAndCerts(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, _, _ := newTestRecommendation(gen)

	courses, certs, err := svc.FindRelevantCoursesAndCerts(context.Background(), 7, recommend.Filters{}, 10)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Empty(t, certs)
}

func TestRecommendation_FindRelevantRoles(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, _, _ := newTestRecommendation(gen)

	roles, err := svc.FindRelevantRoles(context.Background(), 7, recommend.Filters{}, 10)
	require.NoError(t, err)
	require.Len(t, roles, 1)
}

func TestRecommendation_GeneratorErrorIsWrapped(t *testing.T) {
	genErr := errors.New("providers exhausted")
	gen := &stubGenerator{err: genErr}
	svc, _, _, _ := newTestRecommendation(gen)

	_, err := svc.Trajectory(context.Background(), 7, recommend.Filters{})
	require.ErrorIs(t, err, genErr)
}

func TestRecommendation_InvalidateRecommendationCaches(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, _, _ := newTestRecommendation(gen)

	require.NoError(t, svc.InvalidateRecommendationCaches(context.Background(), 7))
	require.Equal(t, []string{"7/Backend Engineer"}, gen.invalidated)
}

func TestRecommendation_InvalidateForMissingUserStillClearsKeys(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, _, _ := newTestRecommendation(gen)

	require.NoError(t, svc.InvalidateRecommendationCaches(context.Background(), 99))
	require.Equal(t, []string{"99/"}, gen.invalidated)
}

func TestRecommendation_InvalidateUserVectorCache(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, vectorizer, _ := newTestRecommendation(gen)

	require.NoError(t, svc.InvalidateUserVectorCache(context.Background(), 7))
	require.Equal(t, []int64{7}, vectorizer.invalidated)
}

func TestRecommendation_InvalidateCatalogVectors(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, _, vectors := newTestRecommendation(gen)

	require.NoError(t, svc.InvalidateCatalogVectors(context.Background()))
	require.True(t, vectors.invalidated)
}
