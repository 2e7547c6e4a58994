package repository

import "errors"

// ErrFormNotFound is returned for unknown or expired form ids.
var ErrFormNotFound = errors.New("form not found")
