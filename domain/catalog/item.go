// Package catalog provides domain types for the recommendable catalog:
// courses, certifications and open roles.
package catalog

// Kind identifies a catalog item variant.
type Kind string

// Kind values.
const (
	KindCourse        Kind = "course"
	KindCertification Kind = "certification"
	KindRole          Kind = "role"
)

// Item is a tagged union over the three catalog variants. Exactly one
// variant is populated, selected by Kind. Items are immutable once fetched
// for a ranking pass.
type Item struct {
	kind   Kind
	course Course
	cert   Certification
	role   Role
}

// CourseItem wraps a course as a catalog item.
func CourseItem(c Course) Item {
	return Item{kind: KindCourse, course: c}
}

// CertificationItem wraps a certification as a catalog item.
func CertificationItem(c Certification) Item {
	return Item{kind: KindCertification, cert: c}
}

// RoleItem wraps a role as a catalog item.
func RoleItem(r Role) Item {
	return Item{kind: KindRole, role: r}
}

// Kind returns the variant tag.
func (i Item) Kind() Kind { return i.kind }

// Course returns the course variant. Only meaningful when Kind is KindCourse.
func (i Item) Course() Course { return i.course }

// Certification returns the certification variant.
func (i Item) Certification() Certification { return i.cert }

// Role returns the role variant.
func (i Item) Role() Role { return i.role }

// ID returns the stable identifier of the wrapped variant.
func (i Item) ID() int64 {
	switch i.kind {
	case KindCourse:
		return i.course.ID()
	case KindCertification:
		return i.cert.ID()
	case KindRole:
		return i.role.ID()
	}
	return 0
}

// Name returns the display name of the wrapped variant.
func (i Item) Name() string {
	switch i.kind {
	case KindCourse:
		return i.course.Name()
	case KindCertification:
		return i.cert.Name()
	case KindRole:
		return i.role.Name()
	}
	return ""
}

// Category returns the category of the wrapped variant, or "" when the
// variant has none.
func (i Item) Category() string {
	switch i.kind {
	case KindCourse:
		return i.course.Category()
	case KindCertification:
		return i.cert.Category()
	}
	return ""
}

// Provider returns the providing or issuing institution, or "" when the
// variant has none.
func (i Item) Provider() string {
	switch i.kind {
	case KindCourse:
		return i.course.Provider()
	case KindCertification:
		return i.cert.Issuer()
	}
	return ""
}

// Projection returns the textual projection of the wrapped variant used
// for embedding.
func (i Item) Projection() string {
	switch i.kind {
	case KindCourse:
		return i.course.Projection()
	case KindCertification:
		return i.cert.Projection()
	case KindRole:
		return i.role.Projection()
	}
	return ""
}
