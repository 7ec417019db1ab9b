package repository

import "errors"

var ErrNotFound = errors.New("not found")

// ErrDuplicateInProgress is returned when the storage-level uniqueness
// constraint rejects a second in-progress session for the same user.
var ErrDuplicateInProgress = errors.New("in-progress session already exists")
