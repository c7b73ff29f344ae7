package recommender

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillcompass/skillcompass/domain/catalog"
	"github.com/skillcompass/skillcompass/domain/profile"
	"github.com/skillcompass/skillcompass/domain/recommend"
	"github.com/skillcompass/skillcompass/infrastructure/provider"
	"github.com/skillcompass/skillcompass/internal/cache"
)

const (
	courseCertJSON = `{"courses":[{"name":"Advanced Go","description":"Generics and concurrency","rationale":"Builds on current skills","match_percent":90}],"certifications":[{"name":"CKA","description":"Kubernetes administration","rationale":"Fills the infra gap","match_percent":80}]}`
	roleJSON       = `{"roles":[{"name":"Platform Engineer","description":"Own the build pipeline","rationale":"Matches the profile","match_percent":88}]}`
)

// stubGenerator is a TextGenerator returning a fixed response or error and
// counting calls.
type stubGenerator struct {
	name     string
	response string
	err      error
	calls    atomic.Int64
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) ChatCompletion(_ context.Context, _ provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	s.calls.Add(1)
	if s.err != nil {
		return provider.ChatCompletionResponse{}, s.err
	}
	return provider.NewChatCompletionResponse(s.response, "stop", provider.NewUsage(10, 20, 30)), nil
}

var _ provider.TextGenerator = (*stubGenerator)(nil)

func generatorUser(userID int64, role string) profile.UserProfile {
	return profile.NewUserProfile(
		userID,
		role,
		[]profile.Skill{profile.NewSkill(1, "Go")},
		nil,
		nil,
		[]profile.HistoryEntry{profile.NewHistoryEntry("Shipped the payments service", "")},
	)
}

func courseShortlist() []recommend.RankedCandidate {
	course := catalog.CourseItem(catalog.ReconstructCourse(1, "Advanced Go", "LearnCo", "Generics and concurrency", "Programming", "advanced", 12))
	return []recommend.RankedCandidate{recommend.NewRankedCandidate(course, 0.91)}
}

func TestNewGenerator_NoProviders(t *testing.T) {
	_, err := NewGenerator(nil, nil, cache.NewMemory())
	require.ErrorIs(t, err, recommend.ErrNoProviders)
}

func TestNewGenerator_StartsOnSecondaryWhenPrimaryAbsent(t *testing.T) {
	secondary := &stubGenerator{name: "anthropic", response: validTrajectoryJSON}
	g, err := NewGenerator(nil, secondary, cache.NewMemory())
	require.NoError(t, err)
	require.Equal(t, StateSecondary, g.ActiveState())

	result, err := g.Trajectory(context.Background(), generatorUser(1, "Backend Engineer"), recommend.Filters{})
	require.NoError(t, err)
	require.False(t, result.FromCache)
	require.Equal(t, int64(1), secondary.calls.Load())
}

func TestGenerator_TrajectoryCachesByRole(t *testing.T) {
	primary := &stubGenerator{name: "openai", response: validTrajectoryJSON}
	g, err := NewGenerator(primary, nil, cache.NewMemory())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := g.Trajectory(ctx, generatorUser(1, "Backend Engineer"), recommend.Filters{})
	require.NoError(t, err)
	require.False(t, first.FromCache)
	require.Equal(t, recommend.KindTrajectory, first.Kind)
	require.Len(t, first.Trajectory.Steps, 1)

	// A different user with the same role shares the trajectory cache.
	second, err := g.Trajectory(ctx, generatorUser(2, "backend engineer"), recommend.Filters{})
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, int64(1), primary.calls.Load())

	// A different role misses.
	_, err = g.Trajectory(ctx, generatorUser(3, "Data Engineer"), recommend.Filters{})
	require.NoError(t, err)
	require.Equal(t, int64(2), primary.calls.Load())
}

func TestGenerator_FilteredAndUnfilteredKeysNeverCollide(t *testing.T) {
	primary := &stubGenerator{name: "openai", response: roleJSON}
	g, err := NewGenerator(primary, nil, cache.NewMemory())
	require.NoError(t, err)
	ctx := context.Background()
	user := generatorUser(1, "Backend Engineer")

	_, err = g.Roles(ctx, user, nil, recommend.Filters{})
	require.NoError(t, err)

	filtered, err := g.Roles(ctx, user, nil, recommend.Filters{Category: "Engineering"})
	require.NoError(t, err)
	require.False(t, filtered.FromCache)
	require.Equal(t, int64(2), primary.calls.Load())

	// Both variants now hit their own entries.
	again, err := g.Roles(ctx, user, nil, recommend.Filters{Category: "Engineering"})
	require.NoError(t, err)
	require.True(t, again.FromCache)
	require.Equal(t, int64(2), primary.calls.Load())
}

func TestGenerator_QuotaFailureSwitchesToSecondary(t *testing.T) {
	primary := &stubGenerator{name: "openai", err: provider.NewProviderError("chat completion", 429, "insufficient_quota", nil)}
	secondary := &stubGenerator{name: "anthropic", response: courseCertJSON}
	g, err := NewGenerator(primary, secondary, cache.NewMemory())
	require.NoError(t, err)
	ctx := context.Background()

	result, err := g.CoursesAndCerts(ctx, generatorUser(1, "Backend Engineer"), courseShortlist(), nil, recommend.Filters{})
	require.NoError(t, err)
	require.False(t, result.FromCache)
	require.Equal(t, "Advanced Go", result.CourseCert.Courses[0].Name)
	require.Equal(t, int64(1), primary.calls.Load())
	require.Equal(t, int64(1), secondary.calls.Load())
	require.Equal(t, StateSecondary, g.ActiveState())

	// Subsequent calls start on the surviving provider.
	_, err = g.CoursesAndCerts(ctx, generatorUser(2, "Backend Engineer"), courseShortlist(), nil, recommend.Filters{})
	require.NoError(t, err)
	require.Equal(t, int64(1), primary.calls.Load())
	require.Equal(t, int64(2), secondary.calls.Load())
}

func TestGenerator_BothProvidersFailingIsExhausted(t *testing.T) {
	primary := &stubGenerator{name: "openai", err: errors.New("quota exceeded")}
	secondary := &stubGenerator{name: "anthropic", err: errors.New("connection refused")}
	g, err := NewGenerator(primary, secondary, cache.NewMemory())
	require.NoError(t, err)

	_, err = g.Roles(context.Background(), generatorUser(1, "Backend Engineer"), nil, recommend.Filters{})
	require.ErrorIs(t, err, recommend.ErrProvidersExhausted)
	require.Equal(t, int64(1), primary.calls.Load(), "exactly one attempt per provider")
	require.Equal(t, int64(1), secondary.calls.Load(), "exactly one attempt per provider")
}

func TestGenerator_SingleProviderFailureIsExhausted(t *testing.T) {
	primary := &stubGenerator{name: "openai", err: errors.New("connection refused")}
	g, err := NewGenerator(primary, nil, cache.NewMemory())
	require.NoError(t, err)

	_, err = g.Trajectory(context.Background(), generatorUser(1, "Backend Engineer"), recommend.Filters{})
	require.ErrorIs(t, err, recommend.ErrProvidersExhausted)
	require.Equal(t, int64(1), primary.calls.Load())
}

func TestGenerator_MalformedResponseCarriesRawText(t *testing.T) {
	primary := &stubGenerator{name: "openai", response: "sorry, no recommendations today"}
	g, err := NewGenerator(primary, nil, cache.NewMemory())
	require.NoError(t, err)

	_, err = g.Trajectory(context.Background(), generatorUser(1, "Backend Engineer"), recommend.Filters{})

	var malformed *recommend.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "sorry, no recommendations today", malformed.RawText)
}

func TestGenerator_MalformedResponseIsNotCached(t *testing.T) {
	primary := &stubGenerator{name: "openai", response: "not json"}
	g, err := NewGenerator(primary, nil, cache.NewMemory())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = g.Trajectory(ctx, generatorUser(1, "Backend Engineer"), recommend.Filters{})
	require.Error(t, err)

	primary.response = validTrajectoryJSON
	result, err := g.Trajectory(ctx, generatorUser(1, "Backend Engineer"), recommend.Filters{})
	require.NoError(t, err)
	require.False(t, result.FromCache)
	require.Equal(t, int64(2), primary.calls.Load())
}

func TestGenerator_InvalidateRemovesAffectedEntries(t *testing.T) {
	primary := &stubGenerator{name: "openai", response: validTrajectoryJSON}
	g, err := NewGenerator(primary, nil, cache.NewMemory())
	require.NoError(t, err)
	ctx := context.Background()
	user := generatorUser(42, "Backend Engineer")

	_, err = g.Trajectory(ctx, user, recommend.Filters{})
	require.NoError(t, err)
	_, err = g.Trajectory(ctx, user, recommend.Filters{Category: "Engineering"})
	require.NoError(t, err)

	primary.response = roleJSON
	_, err = g.Roles(ctx, user, nil, recommend.Filters{})
	require.NoError(t, err)
	other := generatorUser(7, "Data Engineer")
	_, err = g.Roles(ctx, other, nil, recommend.Filters{})
	require.NoError(t, err)

	require.NoError(t, g.Invalidate(ctx, 42, "Backend Engineer"))

	// Trajectory entries for the role are gone, filter variants included.
	primary.response = validTrajectoryJSON
	calls := primary.calls.Load()
	traj, err := g.Trajectory(ctx, user, recommend.Filters{})
	require.NoError(t, err)
	require.False(t, traj.FromCache)
	variant, err := g.Trajectory(ctx, user, recommend.Filters{Category: "Engineering"})
	require.NoError(t, err)
	require.False(t, variant.FromCache)
	require.Equal(t, calls+2, primary.calls.Load())

	// The user's role recommendations are gone; the other user's survive.
	primary.response = roleJSON
	mine, err := g.Roles(ctx, user, nil, recommend.Filters{})
	require.NoError(t, err)
	require.False(t, mine.FromCache)
	theirs, err := g.Roles(ctx, other, nil, recommend.Filters{})
	require.NoError(t, err)
	require.True(t, theirs.FromCache)
}

func TestNormalizeRole(t *testing.T) {
	require.Equal(t, "backend_engineer", normalizeRole("Backend Engineer"))
	require.Equal(t, "backend_engineer", normalizeRole("  backend   ENGINEER  "))
	require.Equal(t, "unknown", normalizeRole("   "))
}
