package packages_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/package-lab/internal/identity"
	"github.com/JaimeStill/package-lab/internal/packages"
	"github.com/JaimeStill/package-lab/pkg/logging"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeRepository struct {
	mu    sync.Mutex
	items []packages.Package
	err   error
}

func (r *fakeRepository) Create(ctx context.Context, item packages.Package) (*packages.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	r.items = append(r.items, item)
	return &item, nil
}

func (r *fakeRepository) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func newSystem(t *testing.T, repo packages.Repository) packages.System {
	t.Helper()

	cfg := &packages.Config{}
	if err := cfg.Finalize("TEST_PACKAGES_"); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return packages.NewSystem(repo, cfg, logging.Discard(), packages.WithClock(fixedClock))
}

func validRequest() packages.PackageRequest {
	return packages.PackageRequest{
		Name:        "Unit Test",
		ContentType: "text/plain",
		FileName:    "hello-world.txt",
	}
}

var testUser = identity.AppUser{ID: "utest", Name: "Unit Test"}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*packages.PackageRequest)
		missing []string
	}{
		{"missing name", func(r *packages.PackageRequest) { r.Name = "" }, []string{"name"}},
		{"missing content type", func(r *packages.PackageRequest) { r.ContentType = "" }, []string{"contentType"}},
		{"missing file name", func(r *packages.PackageRequest) { r.FileName = "" }, []string{"fileName"}},
		{"empty request", func(r *packages.PackageRequest) { *r = packages.PackageRequest{} }, []string{"name", "contentType", "fileName"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			sys := newSystem(t, repo)

			req := validRequest()
			tt.mutate(&req)

			_, err := sys.Create(context.Background(), req, testUser)
			if !errors.Is(err, packages.ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}
			if err.Error() != "Request validation error" {
				t.Errorf("Create() message = %q", err.Error())
			}

			var ve *packages.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Create() error type = %T, want *ValidationError", err)
			}
			if len(ve.Fields) != len(tt.missing) {
				t.Fatalf("Fields = %v, want %v", ve.Fields, tt.missing)
			}
			for i, f := range tt.missing {
				if ve.Fields[i] != f {
					t.Errorf("Fields[%d] = %q, want %q", i, ve.Fields[i], f)
				}
			}

			if repo.calls() != 0 {
				t.Errorf("repository called %d times on invalid request", repo.calls())
			}
		})
	}
}

func TestCreate_Unauthorized(t *testing.T) {
	repo := &fakeRepository{}
	sys := newSystem(t, repo)

	_, err := sys.Create(context.Background(), validRequest(), identity.AppUser{Name: "No Id"})
	if !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("Create() error = %v, want ErrUnauthorized", err)
	}
	if repo.calls() != 0 {
		t.Error("repository called without a user")
	}
}

func TestCreate_Success(t *testing.T) {
	repo := &fakeRepository{}
	sys := newSystem(t, repo)

	desc := "greeting"
	req := validRequest()
	req.Description = &desc

	got, err := sys.Create(context.Background(), req, testUser)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	wantCreated := fixedNow.Truncate(time.Millisecond)

	if got.UserID != "utest" || got.UserName != "Unit Test" {
		t.Errorf("user = %q/%q, want utest/Unit Test", got.UserID, got.UserName)
	}
	if !got.CreatedOn.Equal(wantCreated) {
		t.Errorf("CreatedOn = %v, want %v", got.CreatedOn, wantCreated)
	}
	if got.TTL != wantCreated.Unix()+60 {
		t.Errorf("TTL = %d, want %d", got.TTL, wantCreated.Unix()+60)
	}
	if got.PackageRequest.Name != req.Name || *got.Description != desc {
		t.Errorf("request fields not carried: %+v", got.PackageRequest)
	}

	if repo.calls() != 1 || repo.items[0].Name != req.Name {
		t.Errorf("repository items = %+v", repo.items)
	}
}

func TestCreate_RepositoryErrorUnchanged(t *testing.T) {
	repoErr := &packages.StorageError{Err: errors.New("Reject")}
	sys := newSystem(t, &fakeRepository{err: repoErr})

	_, err := sys.Create(context.Background(), validRequest(), testUser)
	if err != repoErr {
		t.Fatalf("Create() error = %v, want repository error unchanged", err)
	}
}

func TestCreate_Retention(t *testing.T) {
	cfg := &packages.Config{Retention: "24h"}
	if err := cfg.Finalize("TEST_PACKAGES_"); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	sys := packages.NewSystem(&fakeRepository{}, cfg, logging.Discard(), packages.WithClock(fixedClock))

	got, err := sys.Create(context.Background(), validRequest(), testUser)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.TTL-got.CreatedOn.Unix() != 24*60*60 {
		t.Errorf("TTL - CreatedOn = %d, want 86400", got.TTL-got.CreatedOn.Unix())
	}
}

func TestConfig_Finalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     packages.Config
		env     map[string]string
		want    time.Duration
		wantDup bool
		wantErr bool
	}{
		{name: "defaults", want: packages.DefaultRetention},
		{name: "env override", env: map[string]string{
			"TEST_PACKAGES_RETENTION":         "5m",
			"TEST_PACKAGES_REJECT_DUPLICATES": "true",
		}, want: 5 * time.Minute, wantDup: true},
		{name: "invalid", cfg: packages.Config{Retention: "soon"}, wantErr: true},
		{name: "negative", cfg: packages.Config{Retention: "-1s"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := tt.cfg
			err := cfg.Finalize("TEST_PACKAGES_")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg.RetentionDuration() != tt.want {
				t.Errorf("RetentionDuration() = %v, want %v", cfg.RetentionDuration(), tt.want)
			}
			if cfg.RepositoryOptions().RejectDuplicates != tt.wantDup {
				t.Errorf("RejectDuplicates = %v, want %v", cfg.RepositoryOptions().RejectDuplicates, tt.wantDup)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &packages.ValidationError{Fields: []string{"name"}}, 400},
		{"unauthorized", identity.ErrUnauthorized, 401},
		{"duplicate", packages.ErrDuplicate, 409},
		{"storage", &packages.StorageError{Err: errors.New("boom")}, 500},
		{"configuration", packages.ErrConfiguration, 500},
		{"unknown", errors.New("unknown"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := packages.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&packages.StorageError{Err: cause})

	if err.Error() != "connection refused" {
		t.Errorf("Error() = %q, want backend message", err.Error())
	}
	if !errors.Is(err, packages.ErrStorage) {
		t.Error("errors.Is(err, ErrStorage) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}

func TestPackage_MarshalCreatedOn(t *testing.T) {
	tests := []struct {
		name    string
		created time.Time
		want    string
	}{
		{"whole second", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), "2024-03-01T12:00:00.000Z"},
		{"trailing zero", time.Date(2024, 3, 1, 12, 0, 0, 120*int(time.Millisecond), time.UTC), "2024-03-01T12:00:00.120Z"},
		{"millisecond", time.Date(2024, 3, 1, 12, 0, 0, 123*int(time.Millisecond), time.UTC), "2024-03-01T12:00:00.123Z"},
		{"non-utc zone", time.Date(2024, 3, 1, 14, 0, 0, 5*int(time.Millisecond), time.FixedZone("EET", 2*3600)), "2024-03-01T12:00:00.005Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(packages.Package{
				PackageRequest: validRequest(),
				UserID:         "utest",
				CreatedOn:      tt.created,
			})
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			var raw map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if raw["createdOn"] != tt.want {
				t.Errorf("createdOn = %v, want %s", raw["createdOn"], tt.want)
			}
			if raw["name"] != validRequest().Name || raw["userId"] != "utest" {
				t.Errorf("fields = %v", raw)
			}

			var back packages.Package
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !back.CreatedOn.Equal(tt.created) {
				t.Errorf("round trip CreatedOn = %v, want %v", back.CreatedOn, tt.created)
			}
		})
	}
}
