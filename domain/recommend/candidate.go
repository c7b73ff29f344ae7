package recommend

import "github.com/skillcompass/skillcompass/domain/catalog"

// RankedCandidate pairs a catalog item with its similarity score in
// [-1, 1]. Ephemeral, produced per ranking call, not persisted.
type RankedCandidate struct {
	item  catalog.Item
	score float64
}

// NewRankedCandidate creates a ranked candidate.
func NewRankedCandidate(item catalog.Item, score float64) RankedCandidate {
	return RankedCandidate{item: item, score: score}
}

// Item returns the catalog item.
func (c RankedCandidate) Item() catalog.Item { return c.item }

// Score returns the similarity score.
func (c RankedCandidate) Score() float64 { return c.score }
