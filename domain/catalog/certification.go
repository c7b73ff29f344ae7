package catalog

// Certification represents a professional certification issued by an
// external institution. Immutable value object.
type Certification struct {
	id          int64
	name        string
	issuer      string
	description string
	category    string
}

// NewCertification creates a certification that has not been persisted yet.
func NewCertification(name, issuer, description, category string) Certification {
	return Certification{
		name:        name,
		issuer:      issuer,
		description: description,
		category:    category,
	}
}

// ReconstructCertification recreates a certification from persistence.
func ReconstructCertification(id int64, name, issuer, description, category string) Certification {
	return Certification{
		id:          id,
		name:        name,
		issuer:      issuer,
		description: description,
		category:    category,
	}
}

// ID returns the certification's database identifier.
func (c Certification) ID() int64 { return c.id }

// Name returns the certification name.
func (c Certification) Name() string { return c.name }

// Issuer returns the issuing institution.
func (c Certification) Issuer() string { return c.issuer }

// Description returns the certification description.
func (c Certification) Description() string { return c.description }

// Category returns the certification category.
func (c Certification) Category() string { return c.category }

// Projection returns the textual projection used for embedding.
func (c Certification) Projection() string {
	return joinSegments(c.name, c.description, c.category, c.issuer)
}
