package persistence

import (
	"github.com/skillcompass/skillcompass/domain/catalog"
)

// CourseMapper maps between domain Course and CourseModel.
type CourseMapper struct{}

// ToDomain converts a CourseModel to a domain Course.
func (CourseMapper) ToDomain(e CourseModel) catalog.Course {
	return catalog.ReconstructCourse(e.ID, e.Name, e.Provider, e.Description, e.Category, e.Level, e.DurationHours)
}

// ToModel converts a domain Course to a CourseModel.
func (CourseMapper) ToModel(c catalog.Course) CourseModel {
	return CourseModel{
		ID:            c.ID(),
		Name:          c.Name(),
		Provider:      c.Provider(),
		Description:   c.Description(),
		Category:      c.Category(),
		Level:         c.Level(),
		DurationHours: c.DurationHours(),
	}
}

// CertificationMapper maps between domain Certification and CertificationModel.
type CertificationMapper struct{}

// ToDomain converts a CertificationModel to a domain Certification.
func (CertificationMapper) ToDomain(e CertificationModel) catalog.Certification {
	return catalog.ReconstructCertification(e.ID, e.Name, e.Issuer, e.Description, e.Category)
}

// ToModel converts a domain Certification to a CertificationModel.
func (CertificationMapper) ToModel(c catalog.Certification) CertificationModel {
	return CertificationModel{
		ID:          c.ID(),
		Name:        c.Name(),
		Issuer:      c.Issuer(),
		Description: c.Description(),
		Category:    c.Category(),
	}
}

// RoleMapper maps between domain Role and RoleModel.
type RoleMapper struct{}

// ToDomain converts a RoleModel to a domain Role.
func (RoleMapper) ToDomain(e RoleModel) catalog.Role {
	return catalog.ReconstructRole(e.ID, e.Name, e.Description, []string(e.Skills), e.ProjectID)
}

// ToModel converts a domain Role to a RoleModel.
func (RoleMapper) ToModel(r catalog.Role) RoleModel {
	skills := r.Skills()
	cp := make(StringSlice, len(skills))
	copy(cp, skills)
	return RoleModel{
		ID:          r.ID(),
		Name:        r.Name(),
		Description: r.Description(),
		Skills:      cp,
		ProjectID:   r.ProjectID(),
	}
}
