package storage

import "errors"

var (
	// ErrNotFound reports a required single entity that does not exist, by id
	// or as an intermediate step of a hierarchy traversal.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidArgument reports a nil entity or malformed query option
	// supplied by the caller.
	ErrInvalidArgument = errors.New("invalid argument")
)
