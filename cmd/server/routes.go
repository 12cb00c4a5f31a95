package main

import (
	"net/http"

	"github.com/JaimeStill/package-lab/internal/routes"
	"github.com/JaimeStill/package-lab/pkg/lifecycle"
	pkgroutes "github.com/JaimeStill/package-lab/pkg/routes"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes configures the infrastructure routes served outside the API base path.
func registerRoutes(r routes.System, ready lifecycle.ReadinessChecker) {
	r.RegisterRoute(pkgroutes.Route{
		Method:  http.MethodGet,
		Pattern: "/healthz",
		Handler: handleHealthCheck,
	})

	r.RegisterRoute(pkgroutes.Route{
		Method:  http.MethodGet,
		Pattern: "/readyz",
		Handler: func(w http.ResponseWriter, r *http.Request) {
			handleReadinessCheck(w, ready)
		},
	})

	r.RegisterRoute(pkgroutes.Route{
		Method:  http.MethodGet,
		Pattern: "/metrics",
		Handler: promhttp.Handler().ServeHTTP,
	})
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
