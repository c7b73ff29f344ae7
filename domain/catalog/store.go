package catalog

import (
	"context"

	"github.com/skillcompass/skillcompass/domain/repository"
)

// Store provides read access to the full current catalog. Implementations
// live in infrastructure/persistence.
type Store interface {
	// ListCourses returns the courses matching the given options, or every
	// course when none are given.
	ListCourses(ctx context.Context, options ...repository.Option) ([]Course, error)

	// ListCertifications returns the certifications matching the given
	// options, or every certification when none are given.
	ListCertifications(ctx context.Context, options ...repository.Option) ([]Certification, error)

	// ListRoles returns the open roles matching the given options, or
	// every role when none are given.
	ListRoles(ctx context.Context, options ...repository.Option) ([]Role, error)
}
