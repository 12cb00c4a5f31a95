// Package routes builds a chi router from route groups declared by domain handlers.
package routes

import (
	"log/slog"
	"net/http"

	pkgroutes "github.com/JaimeStill/package-lab/pkg/routes"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type routes struct {
	basePath   string
	routes     []pkgroutes.Route
	groups     []pkgroutes.Group
	middleware []func(http.Handler) http.Handler
	logger     *slog.Logger
}

// System extends the route registry with router-wide middleware.
type System interface {
	pkgroutes.System

	// Use appends middleware applied to every route, in registration order.
	Use(mw ...func(http.Handler) http.Handler)
}

// New creates a route system. Groups are mounted under basePath;
// individual routes are mounted at their own pattern.
func New(basePath string, logger *slog.Logger) System {
	return &routes{
		basePath: basePath,
		logger:   logger.With("system", "routes"),
		groups:   []pkgroutes.Group{},
		routes:   []pkgroutes.Route{},
	}
}

func (r *routes) Groups() []pkgroutes.Group {
	return r.groups
}

func (r *routes) Routes() []pkgroutes.Route {
	return r.routes
}

// RegisterRoute adds a route to the route system.
func (r *routes) RegisterRoute(route pkgroutes.Route) {
	r.routes = append(r.routes, route)
}

// RegisterGroup adds a route group to the route system.
func (r *routes) RegisterGroup(group pkgroutes.Group) {
	r.groups = append(r.groups, group)
}

func (r *routes) Use(mw ...func(http.Handler) http.Handler) {
	r.middleware = append(r.middleware, mw...)
}

// Build constructs a chi router from all registered routes and groups.
func (r *routes) Build() http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.Recoverer)
	router.Use(r.middleware...)

	for _, route := range r.routes {
		router.Method(route.Method, route.Pattern, route.Handler)
		r.logger.Debug("route registered", "method", route.Method, "pattern", route.Pattern)
	}

	for _, group := range r.groups {
		for _, route := range group.Routes {
			pattern := r.basePath + group.Path(route)
			router.Method(route.Method, pattern, route.Handler)
			r.logger.Debug("route registered", "method", route.Method, "pattern", pattern)
		}
	}

	return router
}
