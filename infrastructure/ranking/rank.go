package ranking

import (
	"context"
	"fmt"
	"sort"

	"github.com/skillcompass/skillcompass/domain/catalog"
	"github.com/skillcompass/skillcompass/domain/recommend"
	"github.com/skillcompass/skillcompass/infrastructure/provider"
)

// DefaultAbilityThreshold is the minimum similarity between a candidate
// and the free-text ability filter embedding for the candidate to survive.
// Carried over from the original tuning; override via Options.
const DefaultAbilityThreshold = 0.75

// Options controls a ranking pass.
type Options struct {
	// TopN bounds the result size. Zero or negative returns every survivor.
	TopN int

	// Exclude drops candidates whose item id is present (items the user
	// already holds).
	Exclude map[int64]struct{}

	// Filters applies exact attribute matches and the optional free-text
	// ability filter.
	Filters recommend.Filters

	// AbilityThreshold overrides DefaultAbilityThreshold when > 0.
	AbilityThreshold float64
}

// Ranker filters and ranks catalog candidates against a query vector. The
// embedder is only consulted when a free-text ability filter is supplied.
type Ranker struct {
	embedder provider.Embedder
}

// NewRanker creates a ranker.
func NewRanker(embedder provider.Embedder) Ranker {
	return Ranker{embedder: embedder}
}

// Rank applies the pipeline: exclusion set, attribute filters, ability
// text filter, cosine scoring, stable descending sort, truncation to TopN.
//
// The ability filter runs before the final scoring so that the top-N is
// never biased toward items that merely match the ability text well but
// are a poor overall profile match. Ties keep input order; fewer than
// TopN survivors return as-is, never padded.
func (r Ranker) Rank(ctx context.Context, candidates []catalog.EmbeddingRecord, query []float64, opts Options) ([]recommend.RankedCandidate, error) {
	surviving := make([]catalog.EmbeddingRecord, 0, len(candidates))
	for _, c := range candidates {
		if _, excluded := opts.Exclude[c.Item().ID()]; excluded {
			continue
		}
		if !matchesAttributes(c.Item(), opts.Filters) {
			continue
		}
		surviving = append(surviving, c)
	}

	if opts.Filters.Ability != "" {
		filtered, err := r.applyAbilityFilter(ctx, surviving, opts)
		if err != nil {
			return nil, err
		}
		surviving = filtered
	}

	ranked := make([]recommend.RankedCandidate, 0, len(surviving))
	for _, c := range surviving {
		score := CosineSimilarity(query, c.Vector())
		ranked = append(ranked, recommend.NewRankedCandidate(c.Item(), score))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})

	if opts.TopN > 0 && len(ranked) > opts.TopN {
		ranked = ranked[:opts.TopN]
	}
	return ranked, nil
}

// applyAbilityFilter embeds the ability text once and drops candidates
// below the threshold.
func (r Ranker) applyAbilityFilter(ctx context.Context, candidates []catalog.EmbeddingRecord, opts Options) ([]catalog.EmbeddingRecord, error) {
	if r.embedder == nil {
		return nil, fmt.Errorf("ability filter %q requires an embedder", opts.Filters.Ability)
	}

	vectors, err := r.embedder.Embed(ctx, []string{opts.Filters.Ability})
	if err != nil {
		return nil, fmt.Errorf("embed ability filter: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed ability filter: empty response")
	}
	abilityVector := vectors[0]

	threshold := opts.AbilityThreshold
	if threshold <= 0 {
		threshold = DefaultAbilityThreshold
	}

	filtered := make([]catalog.EmbeddingRecord, 0, len(candidates))
	for _, c := range candidates {
		if CosineSimilarity(abilityVector, c.Vector()) >= threshold {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// matchesAttributes applies the exact-match attribute filters. A filter is
// only applied when set, and only to the variants that carry the
// attribute.
func matchesAttributes(item catalog.Item, f recommend.Filters) bool {
	if f.Category != "" && item.Category() != f.Category {
		return false
	}
	if f.CoursesProvider != "" && item.Kind() == catalog.KindCourse && item.Provider() != f.CoursesProvider {
		return false
	}
	if f.CertificationsIssuer != "" && item.Kind() == catalog.KindCertification && item.Provider() != f.CertificationsIssuer {
		return false
	}
	return true
}
