package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skillcompass/skillcompass"
	"github.com/skillcompass/skillcompass/domain/profile"
	"github.com/skillcompass/skillcompass/infrastructure/api/middleware"
	"github.com/skillcompass/skillcompass/infrastructure/api/v1/dto"
)

// UsersRouter handles user and profile API endpoints. Profile mutations
// invalidate the user's cached vector and recommendations.
type UsersRouter struct {
	client *skillcompass.Client
	logger *slog.Logger
}

// NewUsersRouter creates a new UsersRouter.
func NewUsersRouter(client *skillcompass.Client) *UsersRouter {
	return &UsersRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for user endpoints.
func (r *UsersRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Create)
	router.Get("/{userID}/profile", r.Profile)
	router.Put("/{userID}/role", r.UpdateRole)
	router.Post("/{userID}/skills", r.AddSkill)
	router.Post("/{userID}/courses", r.AddCourse)
	router.Post("/{userID}/certifications", r.AddCertification)
	router.Post("/{userID}/history", r.AddHistory)
	router.Delete("/{userID}", r.Delete)

	return router
}

// Create handles POST /api/v1/users.
func (r *UsersRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.CreateUserRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if body.Email == "" {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "email is required", nil), r.logger)
		return
	}

	id, err := r.client.Users.CreateUser(req.Context(), body.Name, body.Email, body.CurrentRole)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, dto.Created{ID: id})
}

// Profile handles GET /api/v1/users/{userID}/profile.
func (r *UsersRouter) Profile(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	p, err := r.client.Profiles.GetProfile(req.Context(), userID)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, buildProfile(p))
}

// UpdateRole handles PUT /api/v1/users/{userID}/role.
func (r *UsersRouter) UpdateRole(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	var body dto.UpdateRoleRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	// Clear caches keyed by the old role before it changes.
	r.invalidateCaches(req, userID)

	if err := r.client.Users.UpdateCurrentRole(req.Context(), userID, body.CurrentRole); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddSkill handles POST /api/v1/users/{userID}/skills.
func (r *UsersRouter) AddSkill(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	var body dto.AddSkillRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if body.Name == "" {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "skill name is required", nil), r.logger)
		return
	}

	if err := r.client.Users.AddSkill(req.Context(), userID, body.Name); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateCaches(req, userID)
	w.WriteHeader(http.StatusNoContent)
}

// AddCourse handles POST /api/v1/users/{userID}/courses.
func (r *UsersRouter) AddCourse(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	var body dto.AddCourseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if _, err := r.client.Catalog.GetCourse(req.Context(), body.CourseID); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if err := r.client.Users.AddCourse(req.Context(), userID, body.CourseID); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateCaches(req, userID)
	w.WriteHeader(http.StatusNoContent)
}

// AddCertification handles POST /api/v1/users/{userID}/certifications.
func (r *UsersRouter) AddCertification(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	var body dto.AddCertificationRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if _, err := r.client.Catalog.GetCertification(req.Context(), body.CertificationID); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if err := r.client.Users.AddCertification(req.Context(), userID, body.CertificationID); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateCaches(req, userID)
	w.WriteHeader(http.StatusNoContent)
}

// AddHistory handles POST /api/v1/users/{userID}/history.
func (r *UsersRouter) AddHistory(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	var body dto.AddHistoryRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	occurredAt := body.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	if err := r.client.Users.AddHistoryEntry(req.Context(), userID, body.Narrative, body.Achievements, occurredAt); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateCaches(req, userID)
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/users/{userID}.
func (r *UsersRouter) Delete(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	// Clear caches first, while the profile can still resolve its role.
	r.invalidateCaches(req, userID)

	if err := r.client.Users.DeleteUser(req.Context(), userID); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// invalidateCaches drops the user's profile vector and recommendations
// after a profile mutation. Failures are logged, not surfaced.
func (r *UsersRouter) invalidateCaches(req *http.Request, userID int64) {
	if err := r.client.Recommendations.InvalidateUserVectorCache(req.Context(), userID); err != nil {
		r.logger.Warn("failed to invalidate user vector", slog.Int64("user_id", userID), slog.Any("error", err))
	}
	if err := r.client.Recommendations.InvalidateRecommendationCaches(req.Context(), userID); err != nil {
		r.logger.Warn("failed to invalidate recommendations", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

func buildProfile(p profile.UserProfile) dto.Profile {
	out := dto.Profile{
		UserID:         p.UserID(),
		CurrentRole:    p.CurrentRole(),
		Skills:         p.SkillNames(),
		Courses:        []dto.HeldItem{},
		Certifications: []dto.HeldItem{},
		History:        []dto.HistoryEntry{},
	}
	for _, c := range p.Courses() {
		out.Courses = append(out.Courses, dto.HeldItem{ID: c.ID(), Name: c.Name()})
	}
	for _, c := range p.Certifications() {
		out.Certifications = append(out.Certifications, dto.HeldItem{ID: c.ID(), Name: c.Name()})
	}
	for _, h := range p.History() {
		out.History = append(out.History, dto.HistoryEntry{Narrative: h.Narrative(), Achievements: h.Achievements()})
	}
	return out
}
