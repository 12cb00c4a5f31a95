// Package api assembles the HTTP API: domain systems, their handlers, and the
// OpenAPI document describing them.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/package-lab/internal/config"
	"github.com/JaimeStill/package-lab/internal/infrastructure"
	"github.com/JaimeStill/package-lab/internal/packages"
	"github.com/JaimeStill/package-lab/pkg/openapi"
	"github.com/JaimeStill/package-lab/pkg/routes"
)

// Module is the assembled API ready to be registered with a router.
type Module struct {
	Runtime  *Runtime
	Domain   *Domain
	Packages *packages.Handler
	spec     []byte
}

// NewModule builds the API from infrastructure and configuration.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(infra)

	domain, err := NewDomain(runtime, cfg)
	if err != nil {
		return nil, fmt.Errorf("domain init failed: %w", err)
	}

	handler := packages.NewHandler(domain.Packages, cfg.Auth, runtime.Logger, cfg.API.MaxBodySizeBytes())

	spec, err := openapi.MarshalJSON(generateSpec(cfg, handler.Routes()))
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}

	return &Module{
		Runtime:  runtime,
		Domain:   domain,
		Packages: handler,
		spec:     spec,
	}, nil
}

// Register adds the API routes and the OpenAPI document to r.
func (m *Module) Register(r routes.System) {
	r.RegisterGroup(m.Packages.Routes())
	r.RegisterGroup(routes.Group{
		Tags: []string{"Documentation"},
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "/openapi.json", Handler: openapi.ServeSpec(m.spec)},
		},
	})
}
