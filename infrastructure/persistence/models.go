// Package persistence provides database storage implementations.
package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice is a custom type for JSON serialization of []string columns.
type StringSlice []string

// Scan implements sql.Scanner for reading JSON.
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}

	return json.Unmarshal(data, s)
}

// Value implements driver.Valuer for writing JSON.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// CourseModel is the GORM model for catalog courses.
type CourseModel struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string `gorm:"column:name;index"`
	Provider      string `gorm:"column:provider;index"`
	Description   string `gorm:"column:description"`
	Category      string `gorm:"column:category;index"`
	Level         string `gorm:"column:level"`
	DurationHours int    `gorm:"column:duration_hours"`
}

// TableName returns the table name.
func (CourseModel) TableName() string { return "courses" }

// CertificationModel is the GORM model for catalog certifications.
type CertificationModel struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;index"`
	Issuer      string `gorm:"column:issuer;index"`
	Description string `gorm:"column:description"`
	Category    string `gorm:"column:category;index"`
}

// TableName returns the table name.
func (CertificationModel) TableName() string { return "certifications" }

// RoleModel is the GORM model for open roles.
type RoleModel struct {
	ID          int64       `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string      `gorm:"column:name;index"`
	Description string      `gorm:"column:description"`
	Skills      StringSlice `gorm:"column:skills;type:json"`
	ProjectID   int64       `gorm:"column:project_id;index"`
}

// TableName returns the table name.
func (RoleModel) TableName() string { return "roles" }

// UserModel is the GORM model for users.
type UserModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name"`
	Email       string    `gorm:"column:email;uniqueIndex"`
	CurrentRole string    `gorm:"column:current_role"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (UserModel) TableName() string { return "users" }

// UserSkillModel is the GORM model for a user's skills.
type UserSkillModel struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID int64  `gorm:"column:user_id;index"`
	Name   string `gorm:"column:name"`
}

// TableName returns the table name.
func (UserSkillModel) TableName() string { return "user_skills" }

// UserCourseModel links a user to a completed course.
type UserCourseModel struct {
	ID       int64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID   int64 `gorm:"column:user_id;index"`
	CourseID int64 `gorm:"column:course_id;index"`
}

// TableName returns the table name.
func (UserCourseModel) TableName() string { return "user_courses" }

// UserCertificationModel links a user to a held certification.
type UserCertificationModel struct {
	ID              int64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int64 `gorm:"column:user_id;index"`
	CertificationID int64 `gorm:"column:certification_id;index"`
}

// TableName returns the table name.
func (UserCertificationModel) TableName() string { return "user_certifications" }

// UserHistoryModel is the GORM model for a user's professional history
// entries.
type UserHistoryModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       int64     `gorm:"column:user_id;index"`
	Narrative    string    `gorm:"column:narrative"`
	Achievements string    `gorm:"column:achievements"`
	OccurredAt   time.Time `gorm:"column:occurred_at"`
}

// TableName returns the table name.
func (UserHistoryModel) TableName() string { return "user_history" }
