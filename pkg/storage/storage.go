// Package storage provides key-value blob storage. System is the port used
// by blob-backed repositories; the filesystem implementation suits
// development and single-node deployments.
package storage

import (
	"context"
	"errors"

	"github.com/JaimeStill/package-lab/pkg/lifecycle"
)

// Storage errors returned by System implementations.
var (
	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the key is empty or escapes the storage root.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrTooLarge indicates the object exceeds the configured size limit.
	ErrTooLarge = errors.New("storage: object too large")
)

// System defines key-value operations over blob storage.
type System interface {
	// Store saves data at key, overwriting existing contents.
	// The write is atomic: readers see the old or new object, never a partial one.
	Store(ctx context.Context, key string, data []byte) error

	// Validate reports whether key exists and is accessible.
	Validate(ctx context.Context, key string) (bool, error)

	// Start prepares the storage root and registers lifecycle hooks with
	// the coordinator.
	Start(lc *lifecycle.Coordinator) error
}
