package packages_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/package-lab/internal/identity"
	"github.com/JaimeStill/package-lab/internal/packages"
	"github.com/JaimeStill/package-lab/pkg/logging"
)

var testClaims = identity.Claims{"cognito:username": "utest", "name": "Unit Test"}

const scenarioBody = `{"name":"Unit Test","contentType":"text/plain","fileName":"hello-world.txt"}`

func newHandler(t *testing.T, repo packages.Repository) *packages.Handler {
	t.Helper()
	return packages.NewHandler(newSystem(t, repo), identity.DefaultClaimKeys(), logging.Discard(), 1<<20)
}

func TestHandle_Success(t *testing.T) {
	repo := &fakeRepository{}
	h := newHandler(t, repo)

	resp := h.Handle(context.Background(), packages.Event{Body: scenarioBody, Claims: testClaims})
	if resp.StatusCode != 200 {
		t.Fatalf("StatusCode = %d, body = %q", resp.StatusCode, resp.Body)
	}

	var got packages.Package
	if err := json.Unmarshal([]byte(resp.Body), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if got.UserID != "utest" || got.UserName != "Unit Test" {
		t.Errorf("user = %q/%q", got.UserID, got.UserName)
	}
	if got.TTL != got.CreatedOn.Unix()+60 {
		t.Errorf("TTL = %d, want createdOn+60 = %d", got.TTL, got.CreatedOn.Unix()+60)
	}
	if got.Name != "Unit Test" || got.ContentType != "text/plain" || got.FileName != "hello-world.txt" {
		t.Errorf("request fields = %+v", got.PackageRequest)
	}

	var raw map[string]any
	json.Unmarshal([]byte(resp.Body), &raw)
	for _, key := range []string{"name", "contentType", "fileName", "userId", "userName", "createdOn", "ttl"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("body missing %q", key)
		}
	}
	if _, ok := raw["description"]; ok {
		t.Error("body includes description when none was supplied")
	}
}

func TestHandle_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		body       string
		claims     identity.Claims
		wantStatus int
		wantBody   string
	}{
		{
			name:       "repository rejects",
			repoErr:    &packages.StorageError{Err: errors.New("Reject")},
			body:       scenarioBody,
			claims:     testClaims,
			wantStatus: 500,
			wantBody:   "Error: Reject",
		},
		{
			name:       "unclassified error",
			repoErr:    errors.New("Reject"),
			body:       scenarioBody,
			claims:     testClaims,
			wantStatus: 500,
			wantBody:   "Error: Reject",
		},
		{
			name:       "missing content type",
			body:       `{"name":"Unit Test","fileName":"hello-world.txt"}`,
			claims:     testClaims,
			wantStatus: 400,
			wantBody:   "Request validation error",
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			claims:     testClaims,
			wantStatus: 400,
			wantBody:   "Request validation error",
		},
		{
			name:       "empty body",
			claims:     testClaims,
			wantStatus: 400,
			wantBody:   "Request validation error",
		},
		{
			name:       "no claims",
			body:       scenarioBody,
			wantStatus: 401,
			wantBody:   "No user authorized",
		},
		{
			name:       "claims without id",
			body:       scenarioBody,
			claims:     identity.Claims{"name": "Unit Test"},
			wantStatus: 401,
			wantBody:   "No user authorized",
		},
		{
			name:       "duplicate",
			repoErr:    packages.ErrDuplicate,
			body:       scenarioBody,
			claims:     testClaims,
			wantStatus: 409,
			wantBody:   "Name already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t, &fakeRepository{err: tt.repoErr})

			resp := h.Handle(context.Background(), packages.Event{Body: tt.body, Claims: tt.claims})
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if resp.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", resp.Body, tt.wantBody)
			}
		})
	}
}

// captureSystem records the identity Context visible during Create.
type captureSystem struct {
	ic      *identity.Context
	hadUser bool
	err     error
	panic   bool
}

func (s *captureSystem) Create(ctx context.Context, req packages.PackageRequest, user identity.AppUser) (*packages.Package, error) {
	s.ic, _ = identity.FromContext(ctx)
	if s.ic != nil {
		s.hadUser = s.ic.HasUser()
	}
	if s.panic {
		panic("boom")
	}
	if s.err != nil {
		return nil, s.err
	}
	return &packages.Package{PackageRequest: req, UserID: user.ID, UserName: user.Name}, nil
}

func TestHandle_IdentityReleased(t *testing.T) {
	tests := []struct {
		name string
		sys  *captureSystem
	}{
		{"success", &captureSystem{}},
		{"validation failure", &captureSystem{err: &packages.ValidationError{}}},
		{"storage failure", &captureSystem{err: &packages.StorageError{Err: errors.New("down")}}},
		{"panic", &captureSystem{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := packages.NewHandler(tt.sys, identity.DefaultClaimKeys(), logging.Discard(), 0)

			func() {
				defer func() { recover() }()
				h.Handle(context.Background(), packages.Event{Body: scenarioBody, Claims: testClaims})
			}()

			if tt.sys.ic == nil {
				t.Fatal("identity context not attached during Create")
			}
			if !tt.sys.hadUser {
				t.Error("identity context empty during Create")
			}
			if tt.sys.ic.HasUser() {
				t.Error("identity context still populated after Handle returned")
			}
		})
	}
}

func TestHandle_FreshIdentityPerCall(t *testing.T) {
	sys := &captureSystem{}
	h := packages.NewHandler(sys, identity.DefaultClaimKeys(), logging.Discard(), 0)

	h.Handle(context.Background(), packages.Event{Body: scenarioBody, Claims: testClaims})
	first := sys.ic

	h.Handle(context.Background(), packages.Event{Body: scenarioBody, Claims: testClaims})
	if sys.ic == first {
		t.Error("identity context reused across invocations")
	}
}
