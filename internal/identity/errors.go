package identity

import "errors"

// ErrUnauthorized indicates no caller identity is available for the current unit of work.
var ErrUnauthorized = errors.New("No user authorized")
