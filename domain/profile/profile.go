// Package profile provides domain types for user profiles and their
// semantic vectors.
package profile

import (
	"strings"
	"time"
)

// Skill is a named skill held by a user.
type Skill struct {
	id   int64
	name string
}

// NewSkill creates a skill.
func NewSkill(id int64, name string) Skill {
	return Skill{id: id, name: name}
}

// ID returns the skill's database identifier.
func (s Skill) ID() int64 { return s.id }

// Name returns the skill name.
func (s Skill) Name() string { return s.name }

// HistoryEntry is one entry of a user's professional history.
type HistoryEntry struct {
	narrative    string
	achievements string
}

// NewHistoryEntry creates a history entry.
func NewHistoryEntry(narrative, achievements string) HistoryEntry {
	return HistoryEntry{narrative: narrative, achievements: achievements}
}

// Narrative returns the free-text narrative of the entry.
func (h HistoryEntry) Narrative() string { return h.narrative }

// Achievements returns the free-text achievements of the entry.
func (h HistoryEntry) Achievements() string { return h.achievements }

// Rendered returns the entry as "narrative + achievements" text.
func (h HistoryEntry) Rendered() string {
	parts := make([]string, 0, 2)
	if strings.TrimSpace(h.narrative) != "" {
		parts = append(parts, strings.TrimSpace(h.narrative))
	}
	if strings.TrimSpace(h.achievements) != "" {
		parts = append(parts, strings.TrimSpace(h.achievements))
	}
	return strings.Join(parts, ". ")
}

// HeldItem is a course or certification the user already holds. Held items
// are excluded from ranking candidates.
type HeldItem struct {
	id   int64
	name string
}

// NewHeldItem creates a held item reference.
func NewHeldItem(id int64, name string) HeldItem {
	return HeldItem{id: id, name: name}
}

// ID returns the held item's catalog identifier.
func (h HeldItem) ID() int64 { return h.id }

// Name returns the held item's name.
func (h HeldItem) Name() string { return h.name }

// UserProfile is the user context consumed by the recommendation pipeline:
// current role, skills, held courses and certifications, and professional
// history. Immutable once fetched for a recommendation pass.
type UserProfile struct {
	userID         int64
	currentRole    string
	skills         []Skill
	courses        []HeldItem
	certifications []HeldItem
	history        []HistoryEntry
}

// NewUserProfile creates a user profile.
func NewUserProfile(userID int64, currentRole string, skills []Skill, courses, certifications []HeldItem, history []HistoryEntry) UserProfile {
	return UserProfile{
		userID:         userID,
		currentRole:    currentRole,
		skills:         append([]Skill(nil), skills...),
		courses:        append([]HeldItem(nil), courses...),
		certifications: append([]HeldItem(nil), certifications...),
		history:        append([]HistoryEntry(nil), history...),
	}
}

// UserID returns the user's database identifier.
func (p UserProfile) UserID() int64 { return p.userID }

// CurrentRole returns the user's current role name.
func (p UserProfile) CurrentRole() string { return p.currentRole }

// Skills returns the user's skills (copy).
func (p UserProfile) Skills() []Skill { return append([]Skill(nil), p.skills...) }

// SkillNames returns the names of the user's skills.
func (p UserProfile) SkillNames() []string {
	names := make([]string, len(p.skills))
	for i, s := range p.skills {
		names[i] = s.Name()
	}
	return names
}

// Courses returns the courses the user already holds (copy).
func (p UserProfile) Courses() []HeldItem { return append([]HeldItem(nil), p.courses...) }

// Certifications returns the certifications the user already holds (copy).
func (p UserProfile) Certifications() []HeldItem { return append([]HeldItem(nil), p.certifications...) }

// History returns the user's professional history (copy).
func (p UserProfile) History() []HistoryEntry { return append([]HistoryEntry(nil), p.history...) }

// Projection returns the textual projection used for embedding: current
// role, joined skill names and rendered history entries. Empty skills or
// history lists yield empty segments; projection construction never fails
// on missing optional fields.
func (p UserProfile) Projection() string {
	segments := []string{
		strings.TrimSpace(p.currentRole),
		strings.Join(p.SkillNames(), ", "),
	}
	for _, h := range p.history {
		segments = append(segments, h.Rendered())
	}
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ". ")
}

// Vector is a user's semantic profile vector. One per user, superseded
// (not merged) on profile change.
type Vector struct {
	userID    int64
	vector    []float64
	createdAt time.Time
}

// NewVector creates a profile vector. The vector slice is copied.
func NewVector(userID int64, vector []float64, createdAt time.Time) Vector {
	vec := make([]float64, len(vector))
	copy(vec, vector)
	return Vector{userID: userID, vector: vec, createdAt: createdAt}
}

// UserID returns the user the vector belongs to.
func (v Vector) UserID() int64 { return v.userID }

// Vector returns the embedding vector (copy).
func (v Vector) Vector() []float64 {
	out := make([]float64, len(v.vector))
	copy(out, v.vector)
	return out
}

// CreatedAt returns the vector's creation time.
func (v Vector) CreatedAt() time.Time { return v.createdAt }
