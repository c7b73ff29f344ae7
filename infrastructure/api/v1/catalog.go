package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillcompass/skillcompass"
	"github.com/skillcompass/skillcompass/domain/catalog"
	"github.com/skillcompass/skillcompass/domain/repository"
	"github.com/skillcompass/skillcompass/infrastructure/api/middleware"
	"github.com/skillcompass/skillcompass/infrastructure/api/v1/dto"
)

// CatalogRouter handles catalog API endpoints. Every mutation invalidates
// the cached catalog vectors so the next ranking pass re-embeds.
type CatalogRouter struct {
	client *skillcompass.Client
	logger *slog.Logger
}

// NewCatalogRouter creates a new CatalogRouter.
func NewCatalogRouter(client *skillcompass.Client) *CatalogRouter {
	return &CatalogRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for catalog endpoints.
func (r *CatalogRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/courses", r.ListCourses)
	router.Post("/courses", r.CreateCourse)
	router.Get("/courses/{id}", r.GetCourse)
	router.Put("/courses/{id}", r.UpdateCourse)
	router.Delete("/courses/{id}", r.DeleteCourse)

	router.Get("/certifications", r.ListCertifications)
	router.Post("/certifications", r.CreateCertification)
	router.Get("/certifications/{id}", r.GetCertification)
	router.Put("/certifications/{id}", r.UpdateCertification)
	router.Delete("/certifications/{id}", r.DeleteCertification)

	router.Get("/roles", r.ListRoles)
	router.Post("/roles", r.CreateRole)
	router.Get("/roles/{id}", r.GetRole)
	router.Put("/roles/{id}", r.UpdateRole)
	router.Delete("/roles/{id}", r.DeleteRole)

	router.Delete("/vectors", r.InvalidateVectors)

	return router
}

// ListCourses handles GET /api/v1/catalog/courses.
func (r *CatalogRouter) ListCourses(w http.ResponseWriter, req *http.Request) {
	courses, err := r.client.Catalog.ListCourses(req.Context(), listOptions(req)...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	out := make([]dto.Course, 0, len(courses))
	for _, c := range courses {
		out = append(out, buildCourse(c))
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// CreateCourse handles POST /api/v1/catalog/courses.
func (r *CatalogRouter) CreateCourse(w http.ResponseWriter, req *http.Request) {
	var body dto.CourseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	course, err := r.client.Catalog.SaveCourse(req.Context(),
		catalog.NewCourse(body.Name, body.Provider, body.Description, body.Category, body.Level, body.DurationHours))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateVectors(req)
	middleware.WriteJSON(w, http.StatusCreated, dto.Created{ID: course.ID()})
}

// GetCourse handles GET /api/v1/catalog/courses/{id}.
func (r *CatalogRouter) GetCourse(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	course, err := r.client.Catalog.GetCourse(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, buildCourse(course))
}

// UpdateCourse handles PUT /api/v1/catalog/courses/{id}.
func (r *CatalogRouter) UpdateCourse(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	var body dto.CourseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if _, err := r.client.Catalog.GetCourse(req.Context(), id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	course, err := r.client.Catalog.SaveCourse(req.Context(),
		catalog.ReconstructCourse(id, body.Name, body.Provider, body.Description, body.Category, body.Level, body.DurationHours))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateVectors(req)
	middleware.WriteJSON(w, http.StatusOK, buildCourse(course))
}

// DeleteCourse handles DELETE /api/v1/catalog/courses/{id}.
func (r *CatalogRouter) DeleteCourse(w http.ResponseWriter, req *http.Request) {
	r.deleteEntity(w, req, r.client.Catalog.DeleteCourse)
}

// ListCertifications handles GET /api/v1/catalog/certifications.
func (r *CatalogRouter) ListCertifications(w http.ResponseWriter, req *http.Request) {
	certs, err := r.client.Catalog.ListCertifications(req.Context(), listOptions(req)...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	out := make([]dto.Certification, 0, len(certs))
	for _, c := range certs {
		out = append(out, buildCertification(c))
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// CreateCertification handles POST /api/v1/catalog/certifications.
func (r *CatalogRouter) CreateCertification(w http.ResponseWriter, req *http.Request) {
	var body dto.CertificationRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	cert, err := r.client.Catalog.SaveCertification(req.Context(),
		catalog.NewCertification(body.Name, body.Issuer, body.Description, body.Category))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateVectors(req)
	middleware.WriteJSON(w, http.StatusCreated, dto.Created{ID: cert.ID()})
}

// GetCertification handles GET /api/v1/catalog/certifications/{id}.
func (r *CatalogRouter) GetCertification(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	cert, err := r.client.Catalog.GetCertification(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, buildCertification(cert))
}

// UpdateCertification handles PUT /api/v1/catalog/certifications/{id}.
func (r *CatalogRouter) UpdateCertification(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	var body dto.CertificationRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if _, err := r.client.Catalog.GetCertification(req.Context(), id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	cert, err := r.client.Catalog.SaveCertification(req.Context(),
		catalog.ReconstructCertification(id, body.Name, body.Issuer, body.Description, body.Category))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateVectors(req)
	middleware.WriteJSON(w, http.StatusOK, buildCertification(cert))
}

// DeleteCertification handles DELETE /api/v1/catalog/certifications/{id}.
func (r *CatalogRouter) DeleteCertification(w http.ResponseWriter, req *http.Request) {
	r.deleteEntity(w, req, r.client.Catalog.DeleteCertification)
}

// ListRoles handles GET /api/v1/catalog/roles.
func (r *CatalogRouter) ListRoles(w http.ResponseWriter, req *http.Request) {
	roles, err := r.client.Catalog.ListRoles(req.Context(), listOptions(req)...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	out := make([]dto.Role, 0, len(roles))
	for _, role := range roles {
		out = append(out, buildRole(role))
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// CreateRole handles POST /api/v1/catalog/roles.
func (r *CatalogRouter) CreateRole(w http.ResponseWriter, req *http.Request) {
	var body dto.RoleRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	role, err := r.client.Catalog.SaveRole(req.Context(),
		catalog.NewRole(body.Name, body.Description, body.Skills, body.ProjectID))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateVectors(req)
	middleware.WriteJSON(w, http.StatusCreated, dto.Created{ID: role.ID()})
}

// GetRole handles GET /api/v1/catalog/roles/{id}.
func (r *CatalogRouter) GetRole(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	role, err := r.client.Catalog.GetRole(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, buildRole(role))
}

// UpdateRole handles PUT /api/v1/catalog/roles/{id}.
func (r *CatalogRouter) UpdateRole(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	var body dto.RoleRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if _, err := r.client.Catalog.GetRole(req.Context(), id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	role, err := r.client.Catalog.SaveRole(req.Context(),
		catalog.ReconstructRole(id, body.Name, body.Description, body.Skills, body.ProjectID))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateVectors(req)
	middleware.WriteJSON(w, http.StatusOK, buildRole(role))
}

// DeleteRole handles DELETE /api/v1/catalog/roles/{id}.
func (r *CatalogRouter) DeleteRole(w http.ResponseWriter, req *http.Request) {
	r.deleteEntity(w, req, r.client.Catalog.DeleteRole)
}

// InvalidateVectors handles DELETE /api/v1/catalog/vectors.
func (r *CatalogRouter) InvalidateVectors(w http.ResponseWriter, req *http.Request) {
	if err := r.client.Recommendations.InvalidateCatalogVectors(req.Context()); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *CatalogRouter) deleteEntity(w http.ResponseWriter, req *http.Request, del func(context.Context, int64) error) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if err := del(req.Context(), id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.invalidateVectors(req)
	w.WriteHeader(http.StatusNoContent)
}

// invalidateVectors drops the cached catalog embeddings after a mutation.
// Failures are logged, not surfaced, since the write itself succeeded.
func (r *CatalogRouter) invalidateVectors(req *http.Request) {
	if err := r.client.Recommendations.InvalidateCatalogVectors(req.Context()); err != nil {
		r.logger.Warn("failed to invalidate catalog vectors", slog.Any("error", err))
	}
}

func listOptions(req *http.Request) []repository.Option {
	q := req.URL.Query()
	var opts []repository.Option
	if v := q.Get("name"); v != "" {
		opts = append(opts, repository.WithName(v))
	}
	if v := q.Get("category"); v != "" {
		opts = append(opts, repository.WithCategory(v))
	}
	if v := q.Get("provider"); v != "" {
		opts = append(opts, repository.WithProvider(v))
	}
	if v := q.Get("issuer"); v != "" {
		opts = append(opts, repository.WithIssuer(v))
	}
	if v := queryInt(req, "limit", 0); v > 0 {
		opts = append(opts, repository.WithLimit(v))
	}
	if v := queryInt(req, "offset", 0); v > 0 {
		opts = append(opts, repository.WithOffset(v))
	}
	return opts
}

func buildCourse(c catalog.Course) dto.Course {
	return dto.Course{
		ID:            c.ID(),
		Name:          c.Name(),
		Provider:      c.Provider(),
		Description:   c.Description(),
		Category:      c.Category(),
		Level:         c.Level(),
		DurationHours: c.DurationHours(),
	}
}

func buildCertification(c catalog.Certification) dto.Certification {
	return dto.Certification{
		ID:          c.ID(),
		Name:        c.Name(),
		Issuer:      c.Issuer(),
		Description: c.Description(),
		Category:    c.Category(),
	}
}

func buildRole(role catalog.Role) dto.Role {
	return dto.Role{
		ID:          role.ID(),
		Name:        role.Name(),
		Description: role.Description(),
		Skills:      role.Skills(),
		ProjectID:   role.ProjectID(),
	}
}
