package catalog

import (
	"strconv"
	"strings"
)

// Course represents a trainable course offered by an external provider.
// Immutable value object identified by its ID once persisted.
type Course struct {
	id            int64
	name          string
	provider      string
	description   string
	category      string
	level         string
	durationHours int
}

// NewCourse creates a course that has not been persisted yet.
func NewCourse(name, provider, description, category, level string, durationHours int) Course {
	return Course{
		name:          name,
		provider:      provider,
		description:   description,
		category:      category,
		level:         level,
		durationHours: durationHours,
	}
}

// ReconstructCourse recreates a course from persistence.
func ReconstructCourse(id int64, name, provider, description, category, level string, durationHours int) Course {
	return Course{
		id:            id,
		name:          name,
		provider:      provider,
		description:   description,
		category:      category,
		level:         level,
		durationHours: durationHours,
	}
}

// ID returns the course's database identifier.
func (c Course) ID() int64 { return c.id }

// Name returns the course name.
func (c Course) Name() string { return c.name }

// Provider returns the providing institution.
func (c Course) Provider() string { return c.provider }

// Description returns the course description.
func (c Course) Description() string { return c.description }

// Category returns the course category.
func (c Course) Category() string { return c.category }

// Level returns the difficulty level.
func (c Course) Level() string { return c.level }

// DurationHours returns the estimated duration in hours.
func (c Course) DurationHours() int { return c.durationHours }

// Projection returns the textual projection used for embedding. Absent
// fields contribute an empty segment, never a "null" literal.
func (c Course) Projection() string {
	return joinSegments(c.name, c.description, c.category, c.level, c.provider, hoursSegment(c.durationHours))
}

// joinSegments joins non-empty segments with ". " so that absent fields
// never leave dangling separators in the projection text.
func joinSegments(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ". ")
}

func hoursSegment(hours int) string {
	if hours <= 0 {
		return ""
	}
	return strconv.Itoa(hours) + " hours"
}
