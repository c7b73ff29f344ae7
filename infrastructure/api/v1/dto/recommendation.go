// Package dto defines the JSON request and response bodies of the v1 API.
package dto

// TrajectoryStep is one step of a recommended career trajectory.
type TrajectoryStep struct {
	Role            string `json:"role"`
	Description     string `json:"description"`
	Rationale       string `json:"rationale"`
	EstimatedMonths int    `json:"estimated_months"`
}

// TrajectoryResponse is the body of a trajectory recommendation.
type TrajectoryResponse struct {
	FromCache bool             `json:"from_cache"`
	Steps     []TrajectoryStep `json:"steps"`
}

// Recommendation is one explained recommendation.
type Recommendation struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Rationale    string `json:"rationale"`
	MatchPercent int    `json:"match_percent"`
}

// CourseCertResponse is the body of a course and certification
// recommendation.
type CourseCertResponse struct {
	FromCache      bool             `json:"from_cache"`
	Courses        []Recommendation `json:"courses"`
	Certifications []Recommendation `json:"certifications"`
}

// RoleResponse is the body of a role recommendation.
type RoleResponse struct {
	FromCache bool             `json:"from_cache"`
	Roles     []Recommendation `json:"roles"`
}

// RankedCandidate is one catalog entity ranked against a user profile.
type RankedCandidate struct {
	ID       int64   `json:"id"`
	Kind     string  `json:"kind"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Provider string  `json:"provider,omitempty"`
	Score    float64 `json:"score"`
}

// CourseCertShortlistResponse holds the ranked course and certification
// shortlists.
type CourseCertShortlistResponse struct {
	Courses        []RankedCandidate `json:"courses"`
	Certifications []RankedCandidate `json:"certifications"`
}

// RoleShortlistResponse holds the ranked role shortlist.
type RoleShortlistResponse struct {
	Roles []RankedCandidate `json:"roles"`
}
