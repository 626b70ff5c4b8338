package errors

import (
	stdErrors "errors"
	"fmt"
)

// StorageReadError describes a durable record that could not be read or parsed.
// Loads never return it to callers; it exists so the failure can be logged
// with a consistent shape.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("failed to read stored value %q: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error {
	return e.Err
}

// NewStorageReadError wraps err with the storage key it was read from.
func NewStorageReadError(key string, err error) *StorageReadError {
	return &StorageReadError{Key: key, Err: err}
}

// IsStorageReadError reports whether err is a StorageReadError (even when wrapped).
func IsStorageReadError(err error) bool {
	var readErr *StorageReadError
	return stdErrors.As(err, &readErr)
}
