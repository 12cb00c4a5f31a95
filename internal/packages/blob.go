package packages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/JaimeStill/package-lab/pkg/storage"
)

// MaxBlobNameLength bounds package names stored by the blob repository so
// the object file name and its temp sibling fit common filesystem limits.
const MaxBlobNameLength = 200

type blobRepository struct {
	store    storage.System
	location string
	opts     RepositoryOptions
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewBlobRepository creates a Repository that stores each package as a JSON
// object at <location>/<name>.json. An empty location returns ErrConfiguration.
func NewBlobRepository(store storage.System, location string, opts RepositoryOptions, logger *slog.Logger) (Repository, error) {
	location = strings.Trim(strings.TrimSpace(location), "/")
	if location == "" {
		return nil, ErrConfiguration
	}

	return &blobRepository{
		store:    store,
		location: location,
		opts:     opts,
		logger:   logger.With("repository", "blob", "location", location),
	}, nil
}

func (r *blobRepository) Create(ctx context.Context, item Package) (*Package, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, &StorageError{Err: fmt.Errorf("encode package: %w", err)}
	}

	key := path.Join(r.location, item.Name+".json")
	if len(item.Name) > MaxBlobNameLength || strings.Contains(item.Name, "/") || !strings.HasPrefix(key, r.location+"/") {
		return nil, &ValidationError{Fields: []string{"name"}}
	}

	// Existence check and write are serialized within this process only.
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.opts.RejectDuplicates {
		exists, err := r.store.Validate(ctx, key)
		if err != nil {
			return nil, r.storageError(item.Name, err)
		}
		if exists {
			return nil, ErrDuplicate
		}
	}

	if err := r.store.Store(ctx, key, data); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return nil, &ValidationError{Fields: []string{"name"}}
		}
		return nil, r.storageError(item.Name, err)
	}

	return &item, nil
}

func (r *blobRepository) storageError(name string, err error) error {
	r.logger.Error("package write failed", "name", name, "error", err)
	return &StorageError{Err: err}
}
