package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// post does not exist. Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (missing required field, slug pattern, tag cap). Maps to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrDuplicateSlug is returned when a create or update would give two posts
// the same slug. The posts.slug unique index is the authority; the repo
// translates the Postgres unique-violation into this error. Maps to HTTP 409.
var ErrDuplicateSlug = errors.New("duplicate slug")

// ErrInvalidID is returned when a post identifier is not a valid UUID.
// Maps to HTTP 400.
var ErrInvalidID = errors.New("invalid id")

// ErrUnauthorized is returned when a request to a protected route carries
// no valid session token. Maps to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidCredentials is returned on login failure. The same error covers
// an unknown email and a wrong password so callers cannot enumerate
// accounts. Maps to HTTP 401.
var ErrInvalidCredentials = errors.New("invalid credentials")
