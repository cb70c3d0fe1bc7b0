package catalog

import "errors"

// Error kinds returned by Storage operations. Callers distinguish them with
// errors.Is; every returned error wraps exactly one of these.
var (
	// ErrNotFound means an identity is absent from the live or trash index.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means a caller-supplied value (path, filter, sort,
	// pagination, dimension spec) was malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIOFailure means an underlying filesystem or image helper failed.
	ErrIOFailure = errors.New("io failure")
)
