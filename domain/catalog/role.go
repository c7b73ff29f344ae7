package catalog

import "strings"

// Role represents an open role attached to a project, with the skill set
// it requires. Immutable value object.
type Role struct {
	id          int64
	name        string
	description string
	skills      []string
	projectID   int64
}

// NewRole creates a role that has not been persisted yet.
func NewRole(name, description string, skills []string, projectID int64) Role {
	return Role{
		name:        name,
		description: description,
		skills:      copyStrings(skills),
		projectID:   projectID,
	}
}

// ReconstructRole recreates a role from persistence.
func ReconstructRole(id int64, name, description string, skills []string, projectID int64) Role {
	r := NewRole(name, description, skills, projectID)
	r.id = id
	return r
}

// ID returns the role's database identifier.
func (r Role) ID() int64 { return r.id }

// Name returns the role name.
func (r Role) Name() string { return r.name }

// Description returns the role description.
func (r Role) Description() string { return r.description }

// Skills returns the required skill names (copy).
func (r Role) Skills() []string { return copyStrings(r.skills) }

// ProjectID returns the identifier of the project the role belongs to.
func (r Role) ProjectID() int64 { return r.projectID }

// Projection returns the textual projection used for embedding.
func (r Role) Projection() string {
	return joinSegments(r.name, r.description, strings.Join(r.skills, ", "))
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
