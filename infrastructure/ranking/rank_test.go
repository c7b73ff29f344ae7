package ranking

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillcompass/skillcompass/domain/catalog"
	"github.com/skillcompass/skillcompass/domain/recommend"
)

// stubEmbedder returns a fixed vector for any text and counts calls.
type stubEmbedder struct {
	vector []float64
	err    error
	calls  atomic.Int64
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = s.vector
	}
	return out, nil
}

func courseRecord(id int64, category, provider string, vector []float64) catalog.EmbeddingRecord {
	course := catalog.ReconstructCourse(id, "course", provider, "", category, "", 0)
	return catalog.NewEmbeddingRecord(catalog.CourseItem(course), vector)
}

func ids(ranked []recommend.RankedCandidate) []int64 {
	out := make([]int64, len(ranked))
	for i, r := range ranked {
		out[i] = r.Item().ID()
	}
	return out
}

func TestRank_ExclusionSetAlwaysHonored(t *testing.T) {
	candidates := []catalog.EmbeddingRecord{
		courseRecord(1, "", "", []float64{1, 0}),
		courseRecord(2, "", "", []float64{0.9, 0.1}),
		courseRecord(3, "", "", []float64{0.5, 0.5}),
	}

	ranked, err := NewRanker(nil).Rank(context.Background(), candidates, []float64{1, 0}, Options{
		Exclude: map[int64]struct{}{1: {}, 3: {}},
	})
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids(ranked))
}

func TestRank_SortsDescendingByScore(t *testing.T) {
	candidates := []catalog.EmbeddingRecord{
		courseRecord(1, "", "", []float64{0, 1}),
		courseRecord(2, "", "", []float64{1, 0}),
		courseRecord(3, "", "", []float64{1, 1}),
	}

	ranked, err := NewRanker(nil).Rank(context.Background(), candidates, []float64{1, 0}, Options{})
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3, 1}, ids(ranked))
	require.Greater(t, ranked[0].Score(), ranked[1].Score())
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	candidates := []catalog.EmbeddingRecord{
		courseRecord(10, "", "", []float64{1, 0}),
		courseRecord(20, "", "", []float64{2, 0}),
		courseRecord(30, "", "", []float64{3, 0}),
	}

	ranked, err := NewRanker(nil).Rank(context.Background(), candidates, []float64{1, 0}, Options{})
	require.NoError(t, err)
	// All three score 1.0; stable sort preserves input order.
	require.Equal(t, []int64{10, 20, 30}, ids(ranked))
}

func TestRank_TopNTruncatesNeverPads(t *testing.T) {
	candidates := []catalog.EmbeddingRecord{
		courseRecord(1, "", "", []float64{1, 0}),
		courseRecord(2, "", "", []float64{0, 1}),
	}
	ranker := NewRanker(nil)

	one, err := ranker.Rank(context.Background(), candidates, []float64{1, 0}, Options{TopN: 1})
	require.NoError(t, err)
	require.Len(t, one, 1)

	all, err := ranker.Rank(context.Background(), candidates, []float64{1, 0}, Options{TopN: 10})
	require.NoError(t, err)
	require.Len(t, all, 2, "fewer eligible candidates than TopN returns all of them")
}

func TestRank_CategoryFilterExactMatch(t *testing.T) {
	candidates := []catalog.EmbeddingRecord{
		courseRecord(1, "cloud", "", []float64{1, 0}),
		courseRecord(2, "data", "", []float64{1, 0}),
		courseRecord(3, "cloud", "", []float64{0, 1}),
	}

	ranked, err := NewRanker(nil).Rank(context.Background(), candidates, []float64{1, 0}, Options{
		Filters: recommend.Filters{Category: "cloud"},
	})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3}, ids(ranked))
}

func TestRank_ProviderFilterOnlyAppliesToCourses(t *testing.T) {
	role := catalog.ReconstructRole(7, "platform engineer", "", []string{"go"}, 1)
	candidates := []catalog.EmbeddingRecord{
		courseRecord(1, "", "Coursera", []float64{1, 0}),
		courseRecord(2, "", "Udemy", []float64{1, 0}),
		catalog.NewEmbeddingRecord(catalog.RoleItem(role), []float64{1, 0}),
	}

	ranked, err := NewRanker(nil).Rank(context.Background(), candidates, []float64{1, 0}, Options{
		Filters: recommend.Filters{CoursesProvider: "Coursera"},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{1, 7}, ids(ranked))
}

func TestRank_AbilityFilterDropsBelowThreshold(t *testing.T) {
	// Ability vector points along x; candidate 2 is orthogonal to it and
	// must be dropped even though it scores highest against the query.
	embedder := &stubEmbedder{vector: []float64{1, 0}}
	candidates := []catalog.EmbeddingRecord{
		courseRecord(1, "", "", []float64{1, 0.1}),
		courseRecord(2, "", "", []float64{0, 1}),
	}

	ranked, err := NewRanker(embedder).Rank(context.Background(), candidates, []float64{0, 1}, Options{
		Filters: recommend.Filters{Ability: "kubernetes"},
	})
	require.NoError(t, err)
	require.Equal(t, []int64{1}, ids(ranked))
	require.Equal(t, int64(1), embedder.calls.Load(), "ability text embedded exactly once")
}

func TestRank_AbilityThresholdOverride(t *testing.T) {
	embedder := &stubEmbedder{vector: []float64{1, 0}}
	candidates := []catalog.EmbeddingRecord{
		courseRecord(1, "", "", []float64{1, 1}), // similarity ~0.707 to ability
	}

	strict, err := NewRanker(embedder).Rank(context.Background(), candidates, []float64{1, 0}, Options{
		Filters: recommend.Filters{Ability: "go"},
	})
	require.NoError(t, err)
	require.Empty(t, strict, "default threshold 0.75 drops the candidate")

	lenient, err := NewRanker(embedder).Rank(context.Background(), candidates, []float64{1, 0}, Options{
		Filters:          recommend.Filters{Ability: "go"},
		AbilityThreshold: 0.5,
	})
	require.NoError(t, err)
	require.Len(t, lenient, 1)
}

func TestRank_AbilityEmbedFailurePropagates(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("embedding service down")}
	candidates := []catalog.EmbeddingRecord{courseRecord(1, "", "", []float64{1, 0})}

	_, err := NewRanker(embedder).Rank(context.Background(), candidates, []float64{1, 0}, Options{
		Filters: recommend.Filters{Ability: "go"},
	})
	require.ErrorContains(t, err, "embedding service down")
}

func TestRank_NoAbilityFilterNeverCallsEmbedder(t *testing.T) {
	embedder := &stubEmbedder{vector: []float64{1, 0}}
	candidates := []catalog.EmbeddingRecord{courseRecord(1, "", "", []float64{1, 0})}

	_, err := NewRanker(embedder).Rank(context.Background(), candidates, []float64{1, 0}, Options{})
	require.NoError(t, err)
	require.Zero(t, embedder.calls.Load())
}
