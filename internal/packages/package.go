// Package packages creates packages on behalf of an authenticated caller.
// The System validates a request, stamps it with the caller and its
// retention deadline, and hands it to a Repository. The Handler adapts
// transport events to the System and maps outcomes to status codes.
package packages

import (
	"encoding/json"
	"time"

	"github.com/JaimeStill/package-lab/internal/identity"
)

// PackageRequest is the caller-supplied description of a package.
type PackageRequest struct {
	Name        string  `json:"name"`
	ContentType string  `json:"contentType"`
	FileName    string  `json:"fileName"`
	Description *string `json:"description,omitempty"`
}

// Validate returns the names of required fields that are empty.
func (r PackageRequest) Validate() []string {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.ContentType == "" {
		missing = append(missing, "contentType")
	}
	if r.FileName == "" {
		missing = append(missing, "fileName")
	}
	return missing
}

// CreatedOnLayout renders CreatedOn with a fixed three-digit millisecond fraction.
const CreatedOnLayout = "2006-01-02T15:04:05.000Z07:00"

// Package is a persisted PackageRequest owned by a user.
// TTL is the epoch second after which storage may expire the record.
type Package struct {
	PackageRequest
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	CreatedOn time.Time `json:"createdOn"`
	TTL       int64     `json:"ttl"`
}

// MarshalJSON encodes CreatedOn in UTC using CreatedOnLayout.
func (p Package) MarshalJSON() ([]byte, error) {
	type plain Package
	return json.Marshal(struct {
		plain
		CreatedOn string `json:"createdOn"`
	}{
		plain:     plain(p),
		CreatedOn: p.CreatedOn.UTC().Format(CreatedOnLayout),
	})
}

func newPackage(req PackageRequest, user identity.AppUser, now time.Time, retention time.Duration) Package {
	created := now.UTC().Truncate(time.Millisecond)
	return Package{
		PackageRequest: req,
		UserID:         user.ID,
		UserName:       user.Name,
		CreatedOn:      created,
		TTL:            created.Add(retention).Unix(),
	}
}
