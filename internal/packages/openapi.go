package packages

import "github.com/JaimeStill/package-lab/pkg/openapi"

type spec struct {
	Create *openapi.Operation
}

// Spec documents the package operations.
var Spec = spec{
	Create: &openapi.Operation{
		Summary:     "Create package",
		Description: "Stores a package owned by the authenticated caller. The package expires after the configured retention.",
		Security:    []map[string][]string{{"bearerAuth": {}}},
		RequestBody: openapi.RequestBodyJSON("PackageRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Created package", "Package"),
			400: openapi.ResponseText("Request validation error"),
			401: openapi.ResponseText("No user authorized"),
			409: openapi.ResponseText("Name already exists (when duplicate rejection is enabled)"),
			413: openapi.ResponseText("Request body too large"),
			500: openapi.ResponseText("Error: <storage failure message>"),
		},
	},
}

// Schemas returns the component schemas referenced by Spec.
func Schemas() map[string]*openapi.Schema {
	request := map[string]*openapi.Schema{
		"name":        {Type: "string", Example: "report-2024"},
		"contentType": {Type: "string", Example: "application/pdf"},
		"fileName":    {Type: "string", Example: "report.pdf"},
		"description": {Type: "string"},
	}

	pkg := map[string]*openapi.Schema{
		"userId":    {Type: "string"},
		"userName":  {Type: "string"},
		"createdOn": {Type: "string", Format: "date-time"},
		"ttl":       {Type: "integer", Format: "int64", Description: "Expiry as epoch seconds"},
	}
	for k, v := range request {
		pkg[k] = v
	}

	return map[string]*openapi.Schema{
		"PackageRequest": {
			Type:       "object",
			Properties: request,
			Required:   []string{"name", "contentType", "fileName"},
		},
		"Package": {
			Type:       "object",
			Properties: pkg,
			Required:   []string{"name", "contentType", "fileName", "userId", "userName", "createdOn", "ttl"},
		},
	}
}
