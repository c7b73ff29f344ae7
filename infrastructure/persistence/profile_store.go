package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/skillcompass/skillcompass/domain/profile"
	"github.com/skillcompass/skillcompass/internal/database"
)

// ProfileStore implements profile.Store using GORM, assembling the full
// user context from the user, skill, held-item and history tables.
type ProfileStore struct {
	db database.Database
}

// NewProfileStore creates a new ProfileStore.
func NewProfileStore(db database.Database) ProfileStore {
	return ProfileStore{db: db}
}

// heldItemRow is the join projection for held courses and certifications.
type heldItemRow struct {
	ID   int64  `gorm:"column:id"`
	Name string `gorm:"column:name"`
}

// GetProfile returns the full profile for a user id. A missing user is
// reported as database.ErrNotFound; empty skill, held-item or history
// lists are not errors.
func (s ProfileStore) GetProfile(ctx context.Context, userID int64) (profile.UserProfile, error) {
	var user UserModel
	result := s.db.Session(ctx).First(&user, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return profile.UserProfile{}, fmt.Errorf("%w: user %d", database.ErrNotFound, userID)
		}
		return profile.UserProfile{}, fmt.Errorf("load user %d: %w", userID, result.Error)
	}

	skills, err := s.loadSkills(ctx, userID)
	if err != nil {
		return profile.UserProfile{}, err
	}
	courses, err := s.loadHeldItems(ctx, userID, "user_courses", "course_id", "courses")
	if err != nil {
		return profile.UserProfile{}, err
	}
	certifications, err := s.loadHeldItems(ctx, userID, "user_certifications", "certification_id", "certifications")
	if err != nil {
		return profile.UserProfile{}, err
	}
	history, err := s.loadHistory(ctx, userID)
	if err != nil {
		return profile.UserProfile{}, err
	}

	return profile.NewUserProfile(user.ID, user.CurrentRole, skills, courses, certifications, history), nil
}

func (s ProfileStore) loadSkills(ctx context.Context, userID int64) ([]profile.Skill, error) {
	var models []UserSkillModel
	result := s.db.Session(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("load skills for user %d: %w", userID, result.Error)
	}

	skills := make([]profile.Skill, len(models))
	for i, m := range models {
		skills[i] = profile.NewSkill(m.ID, m.Name)
	}
	return skills, nil
}

func (s ProfileStore) loadHeldItems(ctx context.Context, userID int64, linkTable, linkColumn, itemTable string) ([]profile.HeldItem, error) {
	var rows []heldItemRow
	result := s.db.Session(ctx).
		Table(linkTable).
		Select(fmt.Sprintf("%s.%s AS id, %s.name AS name", linkTable, linkColumn, itemTable)).
		Joins(fmt.Sprintf("JOIN %s ON %s.id = %s.%s", itemTable, itemTable, linkTable, linkColumn)).
		Where(fmt.Sprintf("%s.user_id = ?", linkTable), userID).
		Order(fmt.Sprintf("%s.id ASC", linkTable)).
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("load %s for user %d: %w", linkTable, userID, result.Error)
	}

	items := make([]profile.HeldItem, len(rows))
	for i, r := range rows {
		items[i] = profile.NewHeldItem(r.ID, r.Name)
	}
	return items, nil
}

func (s ProfileStore) loadHistory(ctx context.Context, userID int64) ([]profile.HistoryEntry, error) {
	var models []UserHistoryModel
	result := s.db.Session(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("load history for user %d: %w", userID, result.Error)
	}

	entries := make([]profile.HistoryEntry, len(models))
	for i, m := range models {
		entries[i] = profile.NewHistoryEntry(m.Narrative, m.Achievements)
	}
	return entries, nil
}

var _ profile.Store = (*ProfileStore)(nil)
