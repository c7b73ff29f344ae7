package vectorize

import "github.com/skillcompass/skillcompass/domain/catalog"

// Cache representations of the embedding collections. Domain value objects
// keep their fields unexported, so the cache layer round-trips through
// these JSON-friendly forms.

type cachedCourse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Provider      string    `json:"provider"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Level         string    `json:"level"`
	DurationHours int       `json:"duration_hours"`
	Vector        []float64 `json:"vector"`
}

type cachedCertification struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Issuer      string    `json:"issuer"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Vector      []float64 `json:"vector"`
}

type cachedRole struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	ProjectID   int64     `json:"project_id"`
	Vector      []float64 `json:"vector"`
}

type cachedCatalog struct {
	Courses        []cachedCourse        `json:"courses"`
	Certifications []cachedCertification `json:"certifications"`
}

type cachedRoles struct {
	Roles []cachedRole `json:"roles"`
}

func newCachedCatalog(v catalog.Vectors) cachedCatalog {
	out := cachedCatalog{
		Courses:        make([]cachedCourse, len(v.Courses)),
		Certifications: make([]cachedCertification, len(v.Certifications)),
	}
	for i, r := range v.Courses {
		c := r.Item().Course()
		out.Courses[i] = cachedCourse{
			ID:            c.ID(),
			Name:          c.Name(),
			Provider:      c.Provider(),
			Description:   c.Description(),
			Category:      c.Category(),
			Level:         c.Level(),
			DurationHours: c.DurationHours(),
			Vector:        r.Vector(),
		}
	}
	for i, r := range v.Certifications {
		c := r.Item().Certification()
		out.Certifications[i] = cachedCertification{
			ID:          c.ID(),
			Name:        c.Name(),
			Issuer:      c.Issuer(),
			Description: c.Description(),
			Category:    c.Category(),
			Vector:      r.Vector(),
		}
	}
	return out
}

func (c cachedCatalog) toDomain() catalog.Vectors {
	out := catalog.Vectors{
		Courses:        make([]catalog.EmbeddingRecord, len(c.Courses)),
		Certifications: make([]catalog.EmbeddingRecord, len(c.Certifications)),
	}
	for i, cc := range c.Courses {
		course := catalog.ReconstructCourse(cc.ID, cc.Name, cc.Provider, cc.Description, cc.Category, cc.Level, cc.DurationHours)
		out.Courses[i] = catalog.NewEmbeddingRecord(catalog.CourseItem(course), cc.Vector)
	}
	for i, cc := range c.Certifications {
		cert := catalog.ReconstructCertification(cc.ID, cc.Name, cc.Issuer, cc.Description, cc.Category)
		out.Certifications[i] = catalog.NewEmbeddingRecord(catalog.CertificationItem(cert), cc.Vector)
	}
	return out
}

func newCachedRoles(records []catalog.EmbeddingRecord) cachedRoles {
	out := cachedRoles{Roles: make([]cachedRole, len(records))}
	for i, r := range records {
		role := r.Item().Role()
		out.Roles[i] = cachedRole{
			ID:          role.ID(),
			Name:        role.Name(),
			Description: role.Description(),
			Skills:      role.Skills(),
			ProjectID:   role.ProjectID(),
			Vector:      r.Vector(),
		}
	}
	return out
}

func (c cachedRoles) toDomain() []catalog.EmbeddingRecord {
	out := make([]catalog.EmbeddingRecord, len(c.Roles))
	for i, cr := range c.Roles {
		role := catalog.ReconstructRole(cr.ID, cr.Name, cr.Description, cr.Skills, cr.ProjectID)
		out[i] = catalog.NewEmbeddingRecord(catalog.RoleItem(role), cr.Vector)
	}
	return out
}
