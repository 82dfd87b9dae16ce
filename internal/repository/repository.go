package repository

import "errors"

// ErrNotFound is returned when no todo exists for the requested id.
var ErrNotFound = errors.New("repository: todo not found")
