package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/skillcompass/skillcompass/domain/catalog"
	"github.com/skillcompass/skillcompass/domain/repository"
	"github.com/skillcompass/skillcompass/internal/database"
)

// CatalogStore implements catalog.Store using GORM. It also carries the
// write paths used by seeding and catalog management.
type CatalogStore struct {
	courses        database.Repository[catalog.Course, CourseModel]
	certifications database.Repository[catalog.Certification, CertificationModel]
	roles          database.Repository[catalog.Role, RoleModel]
}

// NewCatalogStore creates a new CatalogStore.
func NewCatalogStore(db database.Database) CatalogStore {
	return CatalogStore{
		courses:        database.NewRepository[catalog.Course, CourseModel](db, CourseMapper{}, "course"),
		certifications: database.NewRepository[catalog.Certification, CertificationModel](db, CertificationMapper{}, "certification"),
		roles:          database.NewRepository[catalog.Role, RoleModel](db, RoleMapper{}, "role"),
	}
}

// ListCourses returns catalog courses matching the given options.
func (s CatalogStore) ListCourses(ctx context.Context, options ...repository.Option) ([]catalog.Course, error) {
	return s.courses.Find(ctx, options...)
}

// ListCertifications returns catalog certifications matching the given options.
func (s CatalogStore) ListCertifications(ctx context.Context, options ...repository.Option) ([]catalog.Certification, error) {
	return s.certifications.Find(ctx, options...)
}

// ListRoles returns open roles matching the given options.
func (s CatalogStore) ListRoles(ctx context.Context, options ...repository.Option) ([]catalog.Role, error) {
	return s.roles.Find(ctx, options...)
}

// GetCourse returns the course with the given id.
func (s CatalogStore) GetCourse(ctx context.Context, id int64) (catalog.Course, error) {
	return s.courses.FindOne(ctx, repository.WithID(id))
}

// GetCertification returns the certification with the given id.
func (s CatalogStore) GetCertification(ctx context.Context, id int64) (catalog.Certification, error) {
	return s.certifications.FindOne(ctx, repository.WithID(id))
}

// GetRole returns the role with the given id.
func (s CatalogStore) GetRole(ctx context.Context, id int64) (catalog.Role, error) {
	return s.roles.FindOne(ctx, repository.WithID(id))
}

// SaveCourse creates or updates a course.
func (s CatalogStore) SaveCourse(ctx context.Context, course catalog.Course) (catalog.Course, error) {
	model := CourseMapper{}.ToModel(course)
	if err := save(s.courses.DB(ctx), &model, course.ID() == 0); err != nil {
		return catalog.Course{}, fmt.Errorf("save course: %w", err)
	}
	return CourseMapper{}.ToDomain(model), nil
}

// SaveCertification creates or updates a certification.
func (s CatalogStore) SaveCertification(ctx context.Context, cert catalog.Certification) (catalog.Certification, error) {
	model := CertificationMapper{}.ToModel(cert)
	if err := save(s.certifications.DB(ctx), &model, cert.ID() == 0); err != nil {
		return catalog.Certification{}, fmt.Errorf("save certification: %w", err)
	}
	return CertificationMapper{}.ToDomain(model), nil
}

// SaveRole creates or updates a role.
func (s CatalogStore) SaveRole(ctx context.Context, role catalog.Role) (catalog.Role, error) {
	model := RoleMapper{}.ToModel(role)
	if err := save(s.roles.DB(ctx), &model, role.ID() == 0); err != nil {
		return catalog.Role{}, fmt.Errorf("save role: %w", err)
	}
	return RoleMapper{}.ToDomain(model), nil
}

// DeleteCourse removes the course with the given id.
func (s CatalogStore) DeleteCourse(ctx context.Context, id int64) error {
	return s.courses.DeleteBy(ctx, repository.WithID(id))
}

// DeleteCertification removes the certification with the given id.
func (s CatalogStore) DeleteCertification(ctx context.Context, id int64) error {
	return s.certifications.DeleteBy(ctx, repository.WithID(id))
}

// DeleteRole removes the role with the given id.
func (s CatalogStore) DeleteRole(ctx context.Context, id int64) error {
	return s.roles.DeleteBy(ctx, repository.WithID(id))
}

// save inserts or updates a model.
func save(db *gorm.DB, model any, create bool) error {
	var result *gorm.DB
	if create {
		result = db.Create(model)
	} else {
		result = db.Save(model)
	}
	return result.Error
}

var _ catalog.Store = (*CatalogStore)(nil)
