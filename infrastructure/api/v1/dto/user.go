package dto

import "time"

// CreateUserRequest is the body for creating a user.
type CreateUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CurrentRole string `json:"current_role"`
}

// UpdateRoleRequest is the body for changing a user's current role.
type UpdateRoleRequest struct {
	CurrentRole string `json:"current_role"`
}

// AddSkillRequest is the body for adding a skill to a user.
type AddSkillRequest struct {
	Name string `json:"name"`
}

// AddCourseRequest is the body for recording a completed course.
type AddCourseRequest struct {
	CourseID int64 `json:"course_id"`
}

// AddCertificationRequest is the body for recording a held certification.
type AddCertificationRequest struct {
	CertificationID int64 `json:"certification_id"`
}

// AddHistoryRequest is the body for appending a work history entry.
type AddHistoryRequest struct {
	Narrative    string    `json:"narrative"`
	Achievements string    `json:"achievements"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// HeldItem is a course or certification the user holds.
type HeldItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// HistoryEntry is one entry of a user's work history.
type HistoryEntry struct {
	Narrative    string `json:"narrative"`
	Achievements string `json:"achievements"`
}

// Profile is the JSON representation of an assembled user profile.
type Profile struct {
	UserID         int64          `json:"user_id"`
	CurrentRole    string         `json:"current_role"`
	Skills         []string       `json:"skills"`
	Courses        []HeldItem     `json:"courses"`
	Certifications []HeldItem     `json:"certifications"`
	History        []HistoryEntry `json:"history"`
}
