package kv

import (
	"errors"
	"fmt"
)

// PersistError reports a failed durable flush. The namespace has already
// discarded the staged mutations and restored its working copy, so the
// failed operation left no trace in memory or on disk.
type PersistError struct {
	Namespace string
	Err       error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist namespace %q: %v", e.Namespace, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// IsPersistError reports whether err is (or wraps) a PersistError.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
