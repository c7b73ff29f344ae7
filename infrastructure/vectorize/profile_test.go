package vectorize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcompass/skillcompass/domain/profile"
	"github.com/skillcompass/skillcompass/internal/cache"
)

func testProfile() profile.UserProfile {
	return profile.NewUserProfile(
		42,
		"Backend Engineer",
		[]profile.Skill{profile.NewSkill(1, "Go"), profile.NewSkill(2, "PostgreSQL")},
		[]profile.HeldItem{profile.NewHeldItem(1, "Go Fundamentals")},
		nil,
		[]profile.HistoryEntry{
			profile.NewHistoryEntry("Built the billing service", "Cut invoice latency by 40%"),
		},
	)
}

func TestProfileVectorizer_BuildsAndCaches(t *testing.T) {
	embedder := &countingEmbedder{}
	v := NewProfileVectorizer(embedder, cache.NewMemory())
	ctx := context.Background()

	vec, err := v.UserProfileVector(ctx, testProfile())
	require.NoError(t, err)
	require.Equal(t, int64(42), vec.UserID())
	require.Len(t, vec.Vector(), 3)
	require.Equal(t, int64(1), embedder.calls.Load(), "single embedding call per invocation")

	embedder.calls.Store(0)
	again, err := v.UserProfileVector(ctx, testProfile())
	require.NoError(t, err)
	require.Zero(t, embedder.calls.Load(), "cache hit must not call the embedding service")
	require.Equal(t, vec.Vector(), again.Vector())
}

func TestProfileVectorizer_TTLExpiryForcesRefresh(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store := cache.NewMemoryWithClock(func() time.Time { return clock() })

	embedder := &countingEmbedder{}
	v := NewProfileVectorizer(embedder, store, WithProfileVectorTTL(24*time.Hour))
	ctx := context.Background()

	_, err := v.UserProfileVector(ctx, testProfile())
	require.NoError(t, err)

	now = now.Add(25 * time.Hour)

	embedder.calls.Store(0)
	_, err = v.UserProfileVector(ctx, testProfile())
	require.NoError(t, err)
	require.Equal(t, int64(1), embedder.calls.Load(), "expired vector must be recomputed")
}

func TestProfileVectorizer_InvalidateRemovesOnlyThatUser(t *testing.T) {
	embedder := &countingEmbedder{}
	v := NewProfileVectorizer(embedder, cache.NewMemory())
	ctx := context.Background()

	other := profile.NewUserProfile(7, "Data Engineer", nil, nil, nil, nil)

	_, err := v.UserProfileVector(ctx, testProfile())
	require.NoError(t, err)
	_, err = v.UserProfileVector(ctx, other)
	require.NoError(t, err)

	require.NoError(t, v.Invalidate(ctx, 42))

	embedder.calls.Store(0)
	_, err = v.UserProfileVector(ctx, other)
	require.NoError(t, err)
	require.Zero(t, embedder.calls.Load(), "unrelated user's vector must survive invalidation")

	_, err = v.UserProfileVector(ctx, testProfile())
	require.NoError(t, err)
	require.Equal(t, int64(1), embedder.calls.Load())
}

func TestProfileVectorizer_EmptyListsNeverFail(t *testing.T) {
	bare := profile.NewUserProfile(9, "", nil, nil, nil, nil)
	require.Equal(t, "", bare.Projection())

	embedder := &countingEmbedder{}
	v := NewProfileVectorizer(embedder, cache.NewMemory())

	_, err := v.UserProfileVector(context.Background(), bare)
	require.NoError(t, err)
}

func TestUserProfile_ProjectionRendersHistory(t *testing.T) {
	p := testProfile()
	projection := p.Projection()
	require.Contains(t, projection, "Backend Engineer")
	require.Contains(t, projection, "Go, PostgreSQL")
	require.Contains(t, projection, "Built the billing service. Cut invoice latency by 40%")
	require.NotContains(t, projection, "null")
}
