package api

import (
	"github.com/JaimeStill/package-lab/internal/config"
	"github.com/JaimeStill/package-lab/internal/packages"
	"github.com/JaimeStill/package-lab/pkg/openapi"
	"github.com/JaimeStill/package-lab/pkg/routes"
)

// Version is reported in the OpenAPI document.
const Version = "0.1.0"

func generateSpec(cfg *config.Config, groups ...routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.AddSchemas(packages.Schemas())
	spec.Components.SecuritySchemes["bearerAuth"] = &openapi.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}

	for _, group := range groups {
		for _, route := range group.Routes {
			if route.OpenAPI == nil {
				continue
			}

			op := *route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = group.Tags
			}
			spec.AddOperation(group.Path(route), route.Method, &op)
		}
	}

	return spec
}
