package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNoHeader         = errors.New("no report header block found")
	ErrEmptyDocument    = errors.New("document has no lines")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
