package store

import "errors"

// ErrConflict marks an optimistic-concurrency rejection: the revision token
// supplied with a write no longer matches the stored document. Implementations
// wrap it so callers can test with IsConflict regardless of the backend.
var ErrConflict = errors.New("document revision conflict")

// IsConflict reports whether err is a revision conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
