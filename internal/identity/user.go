// Package identity resolves the authenticated caller from claims that an
// upstream gateway has already verified, and scopes that caller to a single
// unit of work.
package identity

// AppUser is the caller on whose behalf a request is processed.
type AppUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
