package identity

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Claims are already-verified identity claims, keyed by claim name.
type Claims map[string]string

// Default claim keys.
const (
	DefaultIDClaim         = "cognito:username"
	DefaultIDFallbackClaim = "sub"
	DefaultNameClaim       = "name"
)

// ClaimKeys selects which claims carry the user id and display name.
type ClaimKeys struct {
	ID         string `toml:"id_claim" env:"ID_CLAIM"`
	IDFallback string `toml:"id_fallback_claim" env:"ID_FALLBACK_CLAIM"`
	Name       string `toml:"name_claim" env:"NAME_CLAIM"`
}

// DefaultClaimKeys returns the claim keys used when none are configured.
func DefaultClaimKeys() ClaimKeys {
	return ClaimKeys{
		ID:         DefaultIDClaim,
		IDFallback: DefaultIDFallbackClaim,
		Name:       DefaultNameClaim,
	}
}

// Finalize applies defaults, loads environment overrides using the given
// variable prefix, and validates the claim keys.
func (k *ClaimKeys) Finalize(prefix string) error {
	k.loadDefaults()
	if err := env.ParseWithOptions(k, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return k.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (k *ClaimKeys) Merge(overlay *ClaimKeys) {
	if overlay.ID != "" {
		k.ID = overlay.ID
	}
	if overlay.IDFallback != "" {
		k.IDFallback = overlay.IDFallback
	}
	if overlay.Name != "" {
		k.Name = overlay.Name
	}
}

func (k *ClaimKeys) loadDefaults() {
	if k.ID == "" {
		k.ID = DefaultIDClaim
	}
	if k.IDFallback == "" {
		k.IDFallback = DefaultIDFallbackClaim
	}
	if k.Name == "" {
		k.Name = DefaultNameClaim
	}
}

func (k *ClaimKeys) validate() error {
	if k.ID == "" {
		return fmt.Errorf("id_claim required")
	}
	return nil
}

// User builds an AppUser from claims. Missing values resolve to "".
func (k ClaimKeys) User(claims Claims) AppUser {
	id := claims[k.ID]
	if id == "" && k.IDFallback != "" {
		id = claims[k.IDFallback]
	}

	return AppUser{
		ID:   id,
		Name: claims[k.Name],
	}
}
