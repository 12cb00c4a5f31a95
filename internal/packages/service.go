package packages

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/package-lab/internal/identity"
)

type service struct {
	repo      Repository
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a System built by NewSystem.
type Option func(*service)

// WithClock replaces the wall clock used to stamp CreatedOn.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// NewSystem creates a package System that persists through repo.
func NewSystem(repo Repository, cfg *Config, logger *slog.Logger, opts ...Option) System {
	s := &service{
		repo:      repo,
		retention: cfg.RetentionDuration(),
		now:       time.Now,
		logger:    logger.With("system", "packages"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req PackageRequest, user identity.AppUser) (*Package, error) {
	if missing := req.Validate(); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	if user.ID == "" {
		return nil, identity.ErrUnauthorized
	}

	item := newPackage(req, user, s.now(), s.retention)

	result, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, err
	}

	s.logger.Info("package created", "name", result.Name, "user_id", result.UserID, "ttl", result.TTL)
	return result, nil
}
