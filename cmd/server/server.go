package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/package-lab/internal/api"
	"github.com/JaimeStill/package-lab/internal/config"
	"github.com/JaimeStill/package-lab/internal/infrastructure"
	"github.com/JaimeStill/package-lab/internal/routes"
	"github.com/JaimeStill/package-lab/internal/server"
	"github.com/JaimeStill/package-lab/pkg/middleware"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	cfg   *config.Config
	infra *infrastructure.Infrastructure
	api   *api.Module
	http  server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	routeSys := routes.New(cfg.API.BasePath, infra.Logger)
	routeSys.Use(
		middleware.TrimSlash(),
		middleware.Logger(infra.Logger),
		middleware.Metrics(),
	)
	registerRoutes(routeSys, infra.Lifecycle)
	apiModule.Register(routeSys)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"backend", cfg.Storage.Backend,
		"version", api.Version,
	)

	return &Server{
		cfg:   cfg,
		infra: infra,
		api:   apiModule,
		http:  server.New(&cfg.Server, routeSys.Build(), infra.Logger),
	}, nil
}

// Start begins all subsystems and returns when they are ready.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(s.infra.Lifecycle.Context(), 30*time.Second)
	defer cancel()

	if err := s.api.Domain.Prepare(ctx, s.cfg); err != nil {
		return fmt.Errorf("prepare storage: %w", err)
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within the timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
