package routes

import (
	"net/http"

	"github.com/JaimeStill/package-lab/pkg/openapi"
)

// Group represents a collection of routes under a common URL prefix.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
}

// Route represents an HTTP route with method, pattern, handler, and the
// OpenAPI operation documenting it.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Path returns the full path of route within group.
func (g Group) Path(route Route) string {
	return g.Prefix + route.Pattern
}
