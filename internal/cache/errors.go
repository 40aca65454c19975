package cache

import "errors"

// ErrNotFound is returned by Open when the database must exist but does not.
var ErrNotFound = errors.New("cache database not found")
