package store

import "errors"

// ErrNotFound reports an operation that requires an existing pattern
// (AddEvidence) referencing an id with no row.
var ErrNotFound = errors.New("pattern not found")

// ErrPersistence tags storage-level failures: lock timeouts, I/O errors,
// constraint violations. Lock timeouts are transient and safe for callers
// to retry with backoff.
var ErrPersistence = errors.New("persistence failure")
