package storage

import "errors"

// ErrNotFound is returned for lookups of ids that no backend knows about.
// Both backends normalize their native not-found errors to this sentinel so
// callers never need to know which store served the request.
var ErrNotFound = errors.New("item not found")
