// Package v1 implements the versioned HTTP API routes.
package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/skillcompass/skillcompass"
	"github.com/skillcompass/skillcompass/domain/recommend"
	"github.com/skillcompass/skillcompass/infrastructure/api/middleware"
	"github.com/skillcompass/skillcompass/infrastructure/api/v1/dto"
)

// RecommendationsRouter handles recommendation API endpoints.
type RecommendationsRouter struct {
	client *skillcompass.Client
	logger *slog.Logger
}

// NewRecommendationsRouter creates a new RecommendationsRouter.
func NewRecommendationsRouter(client *skillcompass.Client) *RecommendationsRouter {
	return &RecommendationsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for recommendation endpoints.
func (r *RecommendationsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/trajectory/{userID}", r.Trajectory)
	router.Get("/courses/{userID}", r.CoursesAndCerts)
	router.Get("/roles/{userID}", r.Roles)
	router.Get("/shortlist/courses/{userID}", r.CourseShortlist)
	router.Get("/shortlist/roles/{userID}", r.RoleShortlist)
	router.Delete("/cache/{userID}", r.InvalidateCache)

	return router
}

// Trajectory handles GET /api/v1/recommendations/trajectory/{userID}.
func (r *RecommendationsRouter) Trajectory(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	result, err := r.client.Recommendations.Trajectory(req.Context(), userID, queryFilters(req))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, buildTrajectoryResponse(result))
}

// CoursesAndCerts handles GET /api/v1/recommendations/courses/{userID}.
func (r *RecommendationsRouter) CoursesAndCerts(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	topCourses := queryInt(req, "top_courses", 0)
	topCerts := queryInt(req, "top_certs", 0)

	result, err := r.client.Recommendations.CoursesAndCerts(req.Context(), userID, topCourses, topCerts, queryFilters(req))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, buildCourseCertResponse(result))
}

// Roles handles GET /api/v1/recommendations/roles/{userID}.
func (r *RecommendationsRouter) Roles(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	result, err := r.client.Recommendations.Roles(req.Context(), userID, queryInt(req, "top", 0), queryFilters(req))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, buildRoleResponse(result))
}

// CourseShortlist handles GET /api/v1/recommendations/shortlist/courses/{userID}.
func (r *RecommendationsRouter) CourseShortlist(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	courses, certs, err := r.client.Recommendations.FindRelevantCoursesAndCerts(req.Context(), userID, queryFilters(req), queryInt(req, "limit", 0))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.CourseCertShortlistResponse{
		Courses:        buildCandidates(courses),
		Certifications: buildCandidates(certs),
	})
}

// RoleShortlist handles GET /api/v1/recommendations/shortlist/roles/{userID}.
func (r *RecommendationsRouter) RoleShortlist(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	roles, err := r.client.Recommendations.FindRelevantRoles(req.Context(), userID, queryFilters(req), queryInt(req, "limit", 0))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RoleShortlistResponse{Roles: buildCandidates(roles)})
}

// InvalidateCache handles DELETE /api/v1/recommendations/cache/{userID}.
// It clears both the cached recommendations and the profile vector.
func (r *RecommendationsRouter) InvalidateCache(w http.ResponseWriter, req *http.Request) {
	userID, err := pathID(req, "userID")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if err := r.client.Recommendations.InvalidateRecommendationCaches(req.Context(), userID); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if err := r.client.Recommendations.InvalidateUserVectorCache(req.Context(), userID); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func buildTrajectoryResponse(result recommend.Result) dto.TrajectoryResponse {
	resp := dto.TrajectoryResponse{FromCache: result.FromCache, Steps: []dto.TrajectoryStep{}}
	if result.Trajectory == nil {
		return resp
	}
	for _, step := range result.Trajectory.Steps {
		resp.Steps = append(resp.Steps, dto.TrajectoryStep{
			Role:            step.Role,
			Description:     step.Description,
			Rationale:       step.Rationale,
			EstimatedMonths: step.EstimatedMonths,
		})
	}
	return resp
}

func buildCourseCertResponse(result recommend.Result) dto.CourseCertResponse {
	resp := dto.CourseCertResponse{
		FromCache:      result.FromCache,
		Courses:        []dto.Recommendation{},
		Certifications: []dto.Recommendation{},
	}
	if result.CourseCert == nil {
		return resp
	}
	resp.Courses = buildRecommendations(result.CourseCert.Courses)
	resp.Certifications = buildRecommendations(result.CourseCert.Certifications)
	return resp
}

func buildRoleResponse(result recommend.Result) dto.RoleResponse {
	resp := dto.RoleResponse{FromCache: result.FromCache, Roles: []dto.Recommendation{}}
	if result.Roles == nil {
		return resp
	}
	resp.Roles = buildRecommendations(result.Roles.Roles)
	return resp
}

func buildRecommendations(recs []recommend.Recommendation) []dto.Recommendation {
	out := make([]dto.Recommendation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, dto.Recommendation{
			Name:         rec.Name,
			Description:  rec.Description,
			Rationale:    rec.Rationale,
			MatchPercent: rec.MatchPercent,
		})
	}
	return out
}

func buildCandidates(candidates []recommend.RankedCandidate) []dto.RankedCandidate {
	out := make([]dto.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		item := c.Item()
		out = append(out, dto.RankedCandidate{
			ID:       item.ID(),
			Kind:     string(item.Kind()),
			Name:     item.Name(),
			Category: item.Category(),
			Provider: item.Provider(),
			Score:    c.Score(),
		})
	}
	return out
}

func pathID(req *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(req, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.NewAPIError(http.StatusBadRequest, "invalid "+name, err)
	}
	return id, nil
}

func queryInt(req *http.Request, name string, fallback int) int {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func queryFilters(req *http.Request) recommend.Filters {
	q := req.URL.Query()
	return recommend.Filters{
		Category:             q.Get("category"),
		CoursesProvider:      q.Get("courses_provider"),
		CertificationsIssuer: q.Get("certifications_issuer"),
		Ability:              q.Get("ability"),
	}
}
