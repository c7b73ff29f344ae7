package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/skillcompass/skillcompass/internal/database"
)

// UserStore carries the write paths for users and their profile data:
// account creation, role changes, skills, held items and history entries.
type UserStore struct {
	db database.Database
}

// NewUserStore creates a new UserStore.
func NewUserStore(db database.Database) UserStore {
	return UserStore{db: db}
}

// CreateUser creates a user and returns its id.
func (s UserStore) CreateUser(ctx context.Context, name, email, currentRole string) (int64, error) {
	model := UserModel{
		Name:        name,
		Email:       email,
		CurrentRole: currentRole,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		return 0, fmt.Errorf("create user: %w", result.Error)
	}
	return model.ID, nil
}

// UpdateCurrentRole changes a user's current role.
func (s UserStore) UpdateCurrentRole(ctx context.Context, userID int64, currentRole string) error {
	result := s.db.Session(ctx).
		Model(&UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"current_role": currentRole, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("update role for user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", database.ErrNotFound, userID)
	}
	return nil
}

// CurrentRole returns a user's current role name.
func (s UserStore) CurrentRole(ctx context.Context, userID int64) (string, error) {
	var user UserModel
	result := s.db.Session(ctx).First(&user, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: user %d", database.ErrNotFound, userID)
		}
		return "", fmt.Errorf("load user %d: %w", userID, result.Error)
	}
	return user.CurrentRole, nil
}

// AddSkill records a skill for a user.
func (s UserStore) AddSkill(ctx context.Context, userID int64, name string) error {
	model := UserSkillModel{UserID: userID, Name: name}
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		return fmt.Errorf("add skill for user %d: %w", userID, result.Error)
	}
	return nil
}

// AddCourse records a completed course for a user.
func (s UserStore) AddCourse(ctx context.Context, userID, courseID int64) error {
	model := UserCourseModel{UserID: userID, CourseID: courseID}
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		return fmt.Errorf("add course for user %d: %w", userID, result.Error)
	}
	return nil
}

// AddCertification records a held certification for a user.
func (s UserStore) AddCertification(ctx context.Context, userID, certificationID int64) error {
	model := UserCertificationModel{UserID: userID, CertificationID: certificationID}
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		return fmt.Errorf("add certification for user %d: %w", userID, result.Error)
	}
	return nil
}

// AddHistoryEntry records a professional history entry for a user.
func (s UserStore) AddHistoryEntry(ctx context.Context, userID int64, narrative, achievements string, occurredAt time.Time) error {
	model := UserHistoryModel{
		UserID:       userID,
		Narrative:    narrative,
		Achievements: achievements,
		OccurredAt:   occurredAt,
	}
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		return fmt.Errorf("add history for user %d: %w", userID, result.Error)
	}
	return nil
}

// DeleteUser removes a user and all profile data attached to it.
func (s UserStore) DeleteUser(ctx context.Context, userID int64) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		for _, model := range []any{
			&UserSkillModel{}, &UserCourseModel{}, &UserCertificationModel{}, &UserHistoryModel{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return fmt.Errorf("delete profile data for user %d: %w", userID, err)
			}
		}
		if err := tx.Delete(&UserModel{}, userID).Error; err != nil {
			return fmt.Errorf("delete user %d: %w", userID, err)
		}
		return nil
	})
}
