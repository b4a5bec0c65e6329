package storage

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("storage: not found")

// Facts-store failures carry the generic user-facing message; the underlying
// cause is logged server-side and never crosses the API boundary.
var (
	ErrFactsRead   = errors.New("could not load case facts")
	ErrFactsCreate = errors.New("could not create case facts")
	ErrFactsWrite  = errors.New("could not update case facts")
)
