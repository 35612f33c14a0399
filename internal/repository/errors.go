package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user whose normalized email
// is already taken.
var ErrDuplicateEmail = errors.New("email already exists")
