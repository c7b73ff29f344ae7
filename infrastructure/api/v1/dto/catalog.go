package dto

// Course is the JSON representation of a catalog course.
type Course struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Level         string `json:"level"`
	DurationHours int    `json:"duration_hours"`
}

// Certification is the JSON representation of a catalog certification.
type Certification struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Issuer      string `json:"issuer"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Role is the JSON representation of a catalog role.
type Role struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	ProjectID   int64    `json:"project_id"`
}

// CourseRequest is the body for creating or updating a course.
type CourseRequest struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Level         string `json:"level"`
	DurationHours int    `json:"duration_hours"`
}

// CertificationRequest is the body for creating or updating a
// certification.
type CertificationRequest struct {
	Name        string `json:"name"`
	Issuer      string `json:"issuer"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// RoleRequest is the body for creating or updating a role.
type RoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	ProjectID   int64    `json:"project_id"`
}

// Created is returned after creating an entity.
type Created struct {
	ID int64 `json:"id"`
}
