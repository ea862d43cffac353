package photos

import "errors"

var (
	// ErrNoFile is returned when an upload carries no file.
	ErrNoFile = errors.New("no file uploaded")
	// ErrInvalidID is returned for ids that are not positive decimal integers.
	ErrInvalidID = errors.New("invalid file id")
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("file not found")
)
