package domain

import "errors"

// Recoverable error categories. Nothing in the engine is fatal: every
// one of these degrades to partial results rather than aborting a scan.
var (
	// ErrBinaryFile marks a file refused because it contains a NUL byte
	ErrBinaryFile = errors.New("binary file")

	// ErrFileTooLarge marks a file refused by the size ceiling
	ErrFileTooLarge = errors.New("file exceeds size ceiling")

	// ErrMaxDepthExceeded marks a traversal stopped at the depth cap
	ErrMaxDepthExceeded = errors.New("traversal depth exceeded")

	// ErrSnapshotInvalid marks a persisted snapshot that failed validation
	ErrSnapshotInvalid = errors.New("snapshot invalid")

	// ErrStoreUnavailable marks a cache backend that could not be reached
	ErrStoreUnavailable = errors.New("cache store unavailable")
)
