package roomstore

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable marks write failures caused by the underlying
// storage (locked file, full disk, closed database). Callers surface
// these to the user and must not pretend the data was saved.
var ErrStorageUnavailable = errors.New("storage unavailable")

// CorruptDataError reports that a stored value could not be parsed.
// Callers treat the key as unusable, not as a crash.
type CorruptDataError struct {
	Key string
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data at key %q: %v", e.Key, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

// IsCorrupt reports whether err is a CorruptDataError.
func IsCorrupt(err error) bool {
	var ce *CorruptDataError
	return errors.As(err, &ce)
}
