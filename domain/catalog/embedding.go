package catalog

// EmbeddingRecord pairs a catalog item with its semantic vector. Records
// are never mutated after creation; a changed catalog entity requires a
// new record.
type EmbeddingRecord struct {
	item   Item
	vector []float64
}

// NewEmbeddingRecord creates an embedding record. The vector is copied.
func NewEmbeddingRecord(item Item, vector []float64) EmbeddingRecord {
	vec := make([]float64, len(vector))
	copy(vec, vector)
	return EmbeddingRecord{item: item, vector: vec}
}

// Item returns the catalog item.
func (r EmbeddingRecord) Item() Item { return r.item }

// Vector returns the embedding vector (copy).
func (r EmbeddingRecord) Vector() []float64 {
	out := make([]float64, len(r.vector))
	copy(out, r.vector)
	return out
}

// Vectors is the cached collection of catalog embedding records, built
// once per catalog generation.
type Vectors struct {
	Courses        []EmbeddingRecord
	Certifications []EmbeddingRecord
}
