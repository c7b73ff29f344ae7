package recommend

// Recommendation is one structured, explained recommendation produced by
// the generative model.
type Recommendation struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Rationale    string `json:"rationale"`
	MatchPercent int    `json:"match_percent"`
}

// TrajectoryStep is one step of a recommended career trajectory.
type TrajectoryStep struct {
	Role            string `json:"role"`
	Description     string `json:"description"`
	Rationale       string `json:"rationale"`
	EstimatedMonths int    `json:"estimated_months"`
}

// TrajectoryPayload is the structured output of a trajectory generation.
type TrajectoryPayload struct {
	Steps []TrajectoryStep `json:"steps"`
}

// CourseCertPayload is the structured output of a course and certification
// generation.
type CourseCertPayload struct {
	Courses        []Recommendation `json:"courses"`
	Certifications []Recommendation `json:"certifications"`
}

// RolePayload is the structured output of a role generation.
type RolePayload struct {
	Roles []Recommendation `json:"roles"`
}

// Result is a tagged union over the three recommendation payloads. Exactly
// one payload is populated, selected by Kind. FromCache reports whether the
// payload was served from the recommendation cache.
type Result struct {
	Kind      Kind
	FromCache bool

	Trajectory *TrajectoryPayload
	CourseCert *CourseCertPayload
	Roles      *RolePayload
}
