// Package vectorize builds and caches semantic vectors for the catalog
// and for user profiles.
package vectorize

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/skillcompass/skillcompass/domain/catalog"
	"github.com/skillcompass/skillcompass/infrastructure/provider"
	"github.com/skillcompass/skillcompass/internal/cache"
)

// DefaultEmbedParallelism bounds concurrent embedding calls during a
// catalog build.
const DefaultEmbedParallelism = 8

// Cache keys within the catalog namespaces. The whole collection lives
// under a single well-known key because it is built once per catalog
// generation.
const collectionKey = "all"

// CatalogVectorStore computes and caches one semantic vector per catalog
// entity. Entries have no expiry: catalog changes are infrequent and
// explicit, so invalidation is manual.
type CatalogVectorStore struct {
	store       catalog.Store
	embedder    provider.Embedder
	catalogNS   cache.Namespace[cachedCatalog]
	rolesNS     cache.Namespace[cachedRoles]
	parallelism int
	log         *slog.Logger
}

// CatalogOption is a functional option for CatalogVectorStore.
type CatalogOption func(*CatalogVectorStore)

// WithEmbedParallelism bounds concurrent embedding calls.
func WithEmbedParallelism(n int) CatalogOption {
	return func(s *CatalogVectorStore) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithCatalogLogger sets the logger.
func WithCatalogLogger(log *slog.Logger) CatalogOption {
	return func(s *CatalogVectorStore) {
		if log != nil {
			s.log = log
		}
	}
}

// NewCatalogVectorStore creates a catalog vector store on top of a cache
// store.
func NewCatalogVectorStore(store catalog.Store, embedder provider.Embedder, cacheStore cache.Store, opts ...CatalogOption) *CatalogVectorStore {
	s := &CatalogVectorStore{
		store:       store,
		embedder:    embedder,
		catalogNS:   cache.NewNamespace[cachedCatalog](cacheStore, "catalog_vectors", cache.NoExpiry),
		rolesNS:     cache.NewNamespace[cachedRoles](cacheStore, "role_vectors", cache.NoExpiry),
		parallelism: DefaultEmbedParallelism,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreateVectors returns the course and certification embedding
// records. A cache hit returns the stored collections with zero external
// calls. A miss fetches the full current catalog, embeds every item
// concurrently and stores the whole collection; any fetch or embedding
// failure propagates unmodified so that ranking never runs on an
// incomplete catalog.
func (s *CatalogVectorStore) GetOrCreateVectors(ctx context.Context) (catalog.Vectors, error) {
	if cached, ok, err := s.catalogNS.Get(ctx, collectionKey); err != nil {
		return catalog.Vectors{}, fmt.Errorf("read catalog vector cache: %w", err)
	} else if ok {
		return cached.toDomain(), nil
	}

	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return catalog.Vectors{}, fmt.Errorf("list courses: %w", err)
	}
	certifications, err := s.store.ListCertifications(ctx)
	if err != nil {
		return catalog.Vectors{}, fmt.Errorf("list certifications: %w", err)
	}

	items := make([]catalog.Item, 0, len(courses)+len(certifications))
	for _, c := range courses {
		items = append(items, catalog.CourseItem(c))
	}
	for _, c := range certifications {
		items = append(items, catalog.CertificationItem(c))
	}

	records, err := s.embedAll(ctx, items)
	if err != nil {
		return catalog.Vectors{}, err
	}

	vectors := catalog.Vectors{
		Courses:        records[:len(courses)],
		Certifications: records[len(courses):],
	}

	if err := s.catalogNS.Set(ctx, collectionKey, newCachedCatalog(vectors)); err != nil {
		return catalog.Vectors{}, fmt.Errorf("write catalog vector cache: %w", err)
	}

	s.log.Info("built catalog vectors",
		"courses", len(vectors.Courses),
		"certifications", len(vectors.Certifications),
	)
	return vectors, nil
}

// RoleVectors returns the embedding records for the role catalog, cached
// under its own key with the same no-expiry policy.
func (s *CatalogVectorStore) RoleVectors(ctx context.Context) ([]catalog.EmbeddingRecord, error) {
	if cached, ok, err := s.rolesNS.Get(ctx, collectionKey); err != nil {
		return nil, fmt.Errorf("read role vector cache: %w", err)
	} else if ok {
		return cached.toDomain(), nil
	}

	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	items := make([]catalog.Item, len(roles))
	for i, r := range roles {
		items[i] = catalog.RoleItem(r)
	}

	records, err := s.embedAll(ctx, items)
	if err != nil {
		return nil, err
	}

	if err := s.rolesNS.Set(ctx, collectionKey, newCachedRoles(records)); err != nil {
		return nil, fmt.Errorf("write role vector cache: %w", err)
	}

	s.log.Info("built role vectors", "roles", len(records))
	return records, nil
}

// Invalidate clears the catalog and role vector collections. Called by
// the catalog CRUD layer after a catalog mutation.
func (s *CatalogVectorStore) Invalidate(ctx context.Context) error {
	if err := s.catalogNS.Delete(ctx, collectionKey); err != nil {
		return fmt.Errorf("invalidate catalog vectors: %w", err)
	}
	if err := s.rolesNS.Delete(ctx, collectionKey); err != nil {
		return fmt.Errorf("invalidate role vectors: %w", err)
	}
	return nil
}

// embedAll computes one vector per item, fanning out up to parallelism
// concurrent embedding calls. Dispatched calls are awaited even after a
// failure; the first error wins and propagates.
func (s *CatalogVectorStore) embedAll(ctx context.Context, items []catalog.Item) ([]catalog.EmbeddingRecord, error) {
	records := make([]catalog.EmbeddingRecord, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			vectors, err := s.embedder.Embed(gctx, []string{item.Projection()})
			if err != nil {
				return fmt.Errorf("embed %s %d: %w", item.Kind(), item.ID(), err)
			}
			if len(vectors) == 0 {
				return fmt.Errorf("embed %s %d: empty response", item.Kind(), item.ID())
			}
			records[i] = catalog.NewEmbeddingRecord(item, vectors[0])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
