package packages

import (
	"errors"
	"io"
	"net/http"

	"github.com/JaimeStill/package-lab/internal/identity"
	"github.com/JaimeStill/package-lab/pkg/handlers"
	"github.com/JaimeStill/package-lab/pkg/routes"
)

const textPlain = "text/plain; charset=utf-8"

// Routes returns the HTTP routes served by h.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/packages",
		Tags:        []string{"Packages"},
		Description: "Package creation on behalf of the authenticated caller",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
		},
	}
}

// Create serves POST /packages by translating the request into an Event.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondRaw(w, http.StatusRequestEntityTooLarge, textPlain, "Request body too large")
			return
		}
		handlers.RespondRaw(w, http.StatusBadRequest, textPlain, err.Error())
		return
	}

	claims, err := identity.ClaimsFromRequest(r)
	if err != nil {
		h.logger.Warn("claims extraction failed", "error", err)
		handlers.RespondRaw(w, http.StatusUnauthorized, textPlain, identity.ErrUnauthorized.Error())
		return
	}

	resp := h.Handle(r.Context(), Event{Body: string(body), Claims: claims})

	contentType := textPlain
	if resp.StatusCode == http.StatusOK {
		contentType = "application/json"
	}
	handlers.RespondRaw(w, resp.StatusCode, contentType, resp.Body)
}
