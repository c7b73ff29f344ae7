package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/skillcompass/skillcompass"
	apimiddleware "github.com/skillcompass/skillcompass/infrastructure/api/middleware"
	v1 "github.com/skillcompass/skillcompass/infrastructure/api/v1"
)

// APIServer provides an HTTP API backed by a skillcompass Client.
type APIServer struct {
	client       *skillcompass.Client
	apiKeys      []string
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given skillcompass
// Client. apiKeys configures write-protection: mutating endpoints (POST,
// PUT, PATCH, DELETE) on catalog, users and cache invalidation require a
// valid key. Read-only endpoints remain open.
func NewAPIServer(client *skillcompass.Client, apiKeys []string) *APIServer {
	return &APIServer{
		client:  client,
		apiKeys: apiKeys,
		logger:  client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call
// MountRoutes(). If not called, ListenAndServe creates a default router
// with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all v1 API routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	recommendationsRouter := v1.NewRecommendationsRouter(c)
	catalogRouter := v1.NewCatalogRouter(c)
	usersRouter := v1.NewUsersRouter(c)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(120 * time.Second))
		r.Use(apimiddleware.Logging(a.logger))
		r.Use(apimiddleware.WriteProtectAuth(a.apiKeys))

		r.Mount("/recommendations", recommendationsRouter.Routes())
		r.Mount("/catalog", catalogRouter.Routes())
		r.Mount("/users", usersRouter.Routes())
	})

	router.Get("/healthz", a.health)
}

// health reports liveness.
func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom
// servers and tests.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
