package errors

import (
	stdErrors "errors"
	"fmt"
)

// ControllerError is an unexpected failure while orchestrating a catalog
// operation. It puts the controller into its error state.
type ControllerError struct {
	Op  string
	Err error
}

func (e *ControllerError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ControllerError) Unwrap() error {
	return e.Err
}

// NewControllerError wraps err with the name of the failing operation.
func NewControllerError(op string, err error) *ControllerError {
	return &ControllerError{Op: op, Err: err}
}

// IsControllerError reports whether err is a ControllerError (even when wrapped).
func IsControllerError(err error) bool {
	var ctrlErr *ControllerError
	return stdErrors.As(err, &ctrlErr)
}
