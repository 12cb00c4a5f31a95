package identity

import (
	"context"
	"sync"
)

// Context holds at most one caller identity for one unit of work.
// A zero Context uses DefaultClaimKeys.
type Context struct {
	mu   sync.Mutex
	keys *ClaimKeys
	user *AppUser
}

// NewContext creates an empty Context that resolves users with keys.
func NewContext(keys ClaimKeys) *Context {
	return &Context{keys: &keys}
}

// Initialize stores the user described by claims. Empty claims clear any
// stored user instead. Calling it again replaces the previous identity.
func (c *Context) Initialize(claims Claims) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(claims) == 0 {
		c.user = nil
		return
	}

	keys := DefaultClaimKeys()
	if c.keys != nil {
		keys = *c.keys
	}

	user := keys.User(claims)
	c.user = &user
}

// Destroy clears the stored identity.
func (c *Context) Destroy() {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()
}

// HasUser reports whether an identity is stored.
func (c *Context) HasUser() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user != nil
}

// User returns the stored identity, or ErrUnauthorized when none is stored.
func (c *Context) User() (AppUser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return AppUser{}, ErrUnauthorized
	}
	return *c.user, nil
}

// Scope initializes the Context from claims and returns a release function
// that destroys it. Callers defer release so teardown runs on every exit path.
func (c *Context) Scope(claims Claims) (release func()) {
	c.Initialize(claims)
	return c.Destroy
}

type contextKey struct{}

// WithContext attaches ic to ctx.
func WithContext(ctx context.Context, ic *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ic)
}

// FromContext returns the identity Context attached to ctx, if any.
func FromContext(ctx context.Context) (*Context, bool) {
	ic, ok := ctx.Value(contextKey{}).(*Context)
	return ic, ok
}

// UserFromContext resolves the caller attached to ctx.
func UserFromContext(ctx context.Context) (AppUser, error) {
	ic, ok := FromContext(ctx)
	if !ok {
		return AppUser{}, ErrUnauthorized
	}
	return ic.User()
}
